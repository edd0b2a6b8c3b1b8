package ai

import "context"

// StubRewriter заглушка, которая возвращает промпт без изменений;
// используется в тестах и при выключенном переписывании.
type StubRewriter struct{}

func NewStubRewriter() StubRewriter { return StubRewriter{} }

func (StubRewriter) Rewrite(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}
