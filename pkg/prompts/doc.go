/*
Package prompts builds the LLM prompts used by the quiz steps and
decodes the structured responses they produce.

Templates are plain text/template and render from the session state, so
steps never concatenate prompt strings themselves. Responses are JSON;
Decode tolerates markdown code fences around the payload since chat
models frequently add them.
*/
package prompts
