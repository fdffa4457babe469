package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/perolav/grunnlag"
	"github.com/perolav/grunnlag/ssb"
)

func TestBaselineDirectAnswer(t *testing.T) {
	client := &scripted{t: t, replies: []string{
		"FINAL ANSWER: Housing is typically the largest spending category.",
	}}

	agent := NewBaseline(client, testRegistry(t))
	result, err := agent.Answer(context.Background(), "What do households spend the most on?")
	require.NoError(t, err)

	assert.True(t, result.Concluded())
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "Housing is typically the largest spending category.", result.Answer)
	assert.Equal(t, 1, client.calls)
}

func TestBaselineSingleToolCall(t *testing.T) {
	client := &scripted{t: t, replies: []string{
		`ACTION: get_spending({"category": "housing"})`,
		"FINAL ANSWER: The average household spends 15,234 NOK per month on housing.",
	}}

	agent := NewBaseline(client, testRegistry(t))
	result, err := agent.Answer(context.Background(), "How much do households spend on housing?")
	require.NoError(t, err)

	assert.True(t, result.Concluded())
	assert.Equal(t, 2, result.Iterations)
	assert.Contains(t, result.Answer, "15,234 NOK")
	assert.Equal(t, 2, client.calls, "exactly one lookup, then the answer")

	observations := result.Trace.Observations()
	require.Len(t, observations, 1)
	assert.Contains(t, observations[0].Content, "15,234 NOK per month")
	require.NotNil(t, observations[0].Provenance)
}

func TestBaselineUnmarkedReplyIsTheAnswer(t *testing.T) {
	client := &scripted{t: t, replies: []string{
		"Households spend roughly a quarter of their budget on housing.",
	}}

	agent := NewBaseline(client, testRegistry(t))
	result, err := agent.Answer(context.Background(), "How much goes to housing?")
	require.NoError(t, err)

	assert.True(t, result.Concluded())
	assert.Equal(t, "Households spend roughly a quarter of their budget on housing.", result.Answer)
}

func TestBaselineNoRetryAfterToolError(t *testing.T) {
	// The lookup fails recoverably, but the baseline still has to answer on
	// the next reply; there is no second chance to call a tool.
	client := &scripted{t: t, replies: []string{
		`ACTION: get_spending({"category": "transportation_xyz"})`,
		"FINAL ANSWER: I could not retrieve the figure.",
	}}

	agent := NewBaseline(client, testRegistry(t))
	result, err := agent.Answer(context.Background(), "How much goes to transportation?")
	require.NoError(t, err)

	assert.True(t, result.Concluded())
	assert.Equal(t, 2, result.Iterations)
	observations := result.Trace.Observations()
	require.Len(t, observations, 1)
	assert.True(t, observations[0].IsError)
}

func TestBaselineFailsOnFetchError(t *testing.T) {
	fetchErr := &ssb.FetchError{TableID: ssb.TableHouseholdBudget, Err: errors.New("connection refused")}
	client := &scripted{t: t, replies: []string{
		`ACTION: get_spending({"category": "housing"})`,
	}}

	agent := NewBaseline(client, failingRegistry(t, fetchErr))
	result, err := agent.Answer(context.Background(), "How much goes to housing?")

	require.Error(t, err)
	assert.Equal(t, ai.StatusFailed, result.Status)
	assert.True(t, ssb.IsUnrecoverable(result.Err))
	assert.Equal(t, 1, client.calls)
}

func TestBaselineSecondReplyWithoutMarkerIsTheAnswer(t *testing.T) {
	client := &scripted{t: t, replies: []string{
		`ACTION: get_total_spending()`,
		"About 28,000 NOK per month in total.",
	}}

	agent := NewBaseline(client, testRegistry(t))
	result, err := agent.Answer(context.Background(), "What is total monthly spending?")
	require.NoError(t, err)

	assert.True(t, result.Concluded())
	assert.Equal(t, "About 28,000 NOK per month in total.", result.Answer)
}
