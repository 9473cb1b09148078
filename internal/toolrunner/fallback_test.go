package toolrunner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docassist/internal/domain"
	"docassist/internal/port"
	"docassist/internal/toolrunner"
	"docassist/mocks"
)

func runOutput(model string) *port.ToolOutput {
	return &port.ToolOutput{
		RawResult:  `{"output": "done"}`,
		ModelUsed:  model,
		PromptUsed: "test prompt",
	}
}

func testInput() port.ToolInput {
	return port.ToolInput{
		Tool:        domain.ToolSummarize,
		FileName:    "report.pdf",
		FileBytes:   []byte("test"),
		ContentType: "application/pdf",
	}
}

func TestFallbackRunner_FirstSucceeds(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(runOutput("claude"), nil)

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	result, err := fr.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "claude", result.ModelUsed)
	r2.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestFallbackRunner_FirstFails_SecondSucceeds(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, errors.New("generic error"))
	r2.On("Run", mock.Anything, input).Return(runOutput("gemini"), nil)

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	result, err := fr.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)
}

func TestFallbackRunner_TwoRateLimited_ThirdSucceeds(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)
	r3 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("claude", errors.New("429"), 60))
	r2.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("gemini", errors.New("429"), 30))
	r3.On("Run", mock.Anything, input).Return(runOutput("openai"), nil)

	fr := toolrunner.NewFallbackRunner(
		[]port.ToolRunner{r1, r2, r3},
		[]string{"claude", "gemini", "openai"},
		nil,
	)

	result, err := fr.Run(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "openai", result.ModelUsed)
}

func TestFallbackRunner_AllRateLimited(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("claude", errors.New("429"), 60))
	r2.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("gemini", errors.New("429"), 30))

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	result, err := fr.Run(context.Background(), input)

	assert.Nil(t, result)
	var rlErr *toolrunner.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
	assert.LessOrEqual(t, rlErr.RetryAfter, 30*time.Second)
}

func TestFallbackRunner_AllFail_NonRateLimit(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, errors.New("error 1"))
	r2.On("Run", mock.Anything, input).Return(nil, errors.New("error 2"))

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	result, err := fr.Run(context.Background(), input)

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "all providers failed")
	assert.ErrorContains(t, err, "error 2")

	var rlErr *toolrunner.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackRunner_SkipsOpenCircuit(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("claude", errors.New("429"), 60)).Once()
	r2.On("Run", mock.Anything, input).Return(runOutput("gemini"), nil)

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	result, err := fr.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)

	result, err = fr.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)

	r1.AssertNumberOfCalls(t, "Run", 1)
}

func TestFallbackRunner_CircuitAutoCloses(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("claude", errors.New("429"), 1)).Once()
	r2.On("Run", mock.Anything, input).Return(runOutput("gemini"), nil).Once()

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	result, err := fr.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)

	time.Sleep(1100 * time.Millisecond)

	r1.On("Run", mock.Anything, input).Return(runOutput("claude"), nil).Once()

	result, err = fr.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "claude", result.ModelUsed)
}

func TestFallbackRunner_StopsOnCancelledContext(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, context.Canceled)

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	_, err := fr.Run(ctx, input)

	assert.ErrorIs(t, err, context.Canceled)
	r2.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestFallbackRunner_ConcurrentSafety(t *testing.T) {
	r1 := new(mocks.MockToolRunner)
	r2 := new(mocks.MockToolRunner)

	input := testInput()
	r1.On("Run", mock.Anything, input).Return(nil, toolrunner.NewRateLimitError("claude", errors.New("429"), 5)).Maybe()
	r2.On("Run", mock.Anything, input).Return(runOutput("gemini"), nil).Maybe()

	fr := toolrunner.NewFallbackRunner([]port.ToolRunner{r1, r2}, []string{"claude", "gemini"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fr.Run(context.Background(), input)
			assert.NoError(t, err)
			assert.NotNil(t, result)
		}()
	}
	wg.Wait()
}
