package timing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/mailextract/ai"
	"github.com/poiesic/mailextract/ai/mock"
	"github.com/poiesic/mailextract/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastSession(t *testing.T, client ai.ModelClient) *extract.Session {
	t.Helper()
	session, err := extract.NewSession(client, extract.WithSleep(
		func(ctx context.Context, d time.Duration) error { return nil },
	))
	require.NoError(t, err)
	return session
}

func harnessRequests(n int) []extract.Request {
	reqs := make([]extract.Request, n)
	for i := range reqs {
		reqs[i] = extract.Request{MailText: fmt.Sprintf("mail-%d", i)}
	}
	return reqs
}

func TestNewHarness_RequiresSession(t *testing.T) {
	_, err := NewHarness(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionRequired)
}

func TestHarnessRun_ReportFormat(t *testing.T) {
	client := mock.NewMockModelClient()
	session := fastSession(t, client)

	harness, err := NewHarness(session, WithLevels([]int{2, 4}))
	require.NoError(t, err)

	report, err := harness.Run(context.Background(), harnessRequests(4))
	require.NoError(t, err)

	// Instant mock completions render as zero durations
	expected := "SMT = 2\n" +
		"Non Batch: 0min 0sec\n" +
		"Batch: 0min 0sec\n\n" +
		"SMT = 4\n" +
		"Non Batch: 0min 0sec\n" +
		"Batch: 0min 0sec\n\n"
	assert.Equal(t, expected, report)
}

func TestHarnessRun_MeasuresWithInjectedClock(t *testing.T) {
	client := mock.NewMockModelClient()
	session := fastSession(t, client)

	// Each clock reading advances 65s: sequential and batch phases both
	// measure exactly one interval.
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(65 * time.Second)
		return now
	}

	harness, err := NewHarness(session, WithLevels([]int{2}), WithClock(clock))
	require.NoError(t, err)

	report, err := harness.Run(context.Background(), harnessRequests(2))
	require.NoError(t, err)
	assert.Equal(t, "SMT = 2\nNon Batch: 1min 5sec\nBatch: 1min 5sec\n\n", report)
}

func TestHarnessRun_TruncatesToAvailableRequests(t *testing.T) {
	client := mock.NewMockModelClient()
	session := fastSession(t, client)

	harness, err := NewHarness(session, WithLevels([]int{8}))
	require.NoError(t, err)

	report, err := harness.Run(context.Background(), harnessRequests(3))
	require.NoError(t, err)

	// Level label is preserved even when fewer requests exist
	assert.Contains(t, report, "SMT = 8\n")
	// 3 sequential + 3 batch calls
	assert.Equal(t, 6, client.CallCount())
}

func TestHarnessRun_PropagatesFailures(t *testing.T) {
	client := mock.NewMockModelClient()
	client.StreamChatFunc = func(ctx context.Context, messages []ai.Message, maxTokens int) (ai.TokenStream, error) {
		return nil, errors.New("endpoint down")
	}
	session := fastSession(t, client)

	harness, err := NewHarness(session, WithLevels([]int{2}))
	require.NoError(t, err)

	_, err = harness.Run(context.Background(), harnessRequests(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint down")
}

func TestHarnessWriteReport_PersistsPlainText(t *testing.T) {
	client := mock.NewMockModelClient()
	session := fastSession(t, client)

	harness, err := NewHarness(session, WithLevels([]int{2}))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "timing_results.txt")
	report, err := harness.WriteReport(context.Background(), harnessRequests(2), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, report, string(data))
	assert.Contains(t, string(data), "SMT = 2\n")
}

func TestDefaultLevels(t *testing.T) {
	assert.Equal(t, []int{2, 4, 8}, DefaultLevels)
}
