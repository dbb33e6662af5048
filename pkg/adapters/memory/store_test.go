package memory_test

import (
	"testing"

	"github.com/quizflow/quizflow/pkg/adapters/memory"
	"github.com/quizflow/quizflow/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}
