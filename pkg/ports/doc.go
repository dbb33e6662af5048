/*
Package ports defines the interfaces (driven ports) that decouple the
quizflow core from infrastructure: state persistence, distributed
locking, the chat model transport, and the processing-step contract.

Adapters live in pkg/adapters; the core depends only on these
interfaces.
*/
package ports
