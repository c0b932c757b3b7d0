package testctx

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bletest/ble"
	"bletest/domain"
)

func newTestContext(t *testing.T) (*Context, *ble.Sim) {
	t.Helper()
	sim := ble.NewSim()
	return New(sim, WithOutput(io.Discard)), sim
}

func TestContext_ResultLifecycle(t *testing.T) {
	tc, _ := newTestContext(t)

	tc.StartTest("mod.test_one", "first test")
	require.Equal(t, domain.StatusRunning, tc.Result("mod.test_one").Status)

	tc.Debugf("doing things")
	r := tc.EndTest(domain.StatusPass, "")
	require.NotNil(t, r)
	assert.Equal(t, domain.StatusPass, r.Status)
	assert.NotEmpty(t, r.Logs)

	// Finalized exactly once: a second EndTest has no test to close.
	assert.Nil(t, tc.EndTest(domain.StatusFail, "late"))
	assert.Equal(t, domain.StatusPass, tc.Result("mod.test_one").Status)
}

func TestContext_Summary(t *testing.T) {
	tc, _ := newTestContext(t)

	tc.StartTest("mod.test_pass", "")
	tc.EndTest(domain.StatusPass, "")
	tc.StartTest("mod.test_fail", "")
	tc.EndTest(domain.StatusFail, "boom")
	tc.StartTest("mod.test_err", "")
	tc.EndTest(domain.StatusError, "device gone")
	tc.StartTest("mod.test_skip", "")
	tc.EndTest(domain.StatusSkip, "not today")

	s := tc.Summary()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 2, s.Failed)

	names := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"mod.test_pass", "mod.test_fail", "mod.test_err", "mod.test_skip"}, names)
}

func TestContext_DuplicateNameOverwrites(t *testing.T) {
	tc, _ := newTestContext(t)

	tc.StartTest("mod.test_dup", "")
	tc.EndTest(domain.StatusFail, "first")
	tc.StartTest("mod.test_dup", "")
	tc.EndTest(domain.StatusPass, "")

	s := tc.Summary()
	require.Len(t, s.Results, 1)
	assert.Equal(t, domain.StatusPass, s.Results[0].Status)
}

func TestContext_WaitForNotification(t *testing.T) {
	tc, sim := newTestContext(t)
	char := uuid.New()

	t.Run("expected value arrives", func(t *testing.T) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			sim.Push(char, []byte{0x00}) // ignored, not the expected value
			sim.Push(char, []byte{0x01})
		}()
		got, err := tc.WaitForNotification(context.Background(), char, []byte{0x01}, time.Second)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01}, got)
		tc.UnsubscribeAll()
	})

	t.Run("timeout maps to domain.Timeout", func(t *testing.T) {
		_, err := tc.WaitForNotification(context.Background(), char, []byte{0x02}, 20*time.Millisecond)
		var timeout *domain.Timeout
		require.ErrorAs(t, err, &timeout)
		tc.UnsubscribeAll()
	})

	t.Run("context cancellation wins", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tc.WaitForNotification(ctx, char, nil, time.Second)
		assert.ErrorIs(t, err, context.Canceled)
		tc.UnsubscribeAll()
	})
}

func TestContext_CleanupReleasesPendingWaiter(t *testing.T) {
	tc, _ := newTestContext(t)
	char := uuid.New()

	errCh := make(chan error, 1)
	go func() {
		_, err := tc.WaitForNotification(context.Background(), char, nil, time.Minute)
		errCh <- err
	}()

	// Let the waiter register before releasing it.
	time.Sleep(20 * time.Millisecond)
	tc.CleanupPendingTasks()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrWaitCanceled)
	case <-time.After(time.Second):
		t.Fatal("pending waiter was not released by cleanup")
	}
}

type scriptedPrompter struct{ answer string }

func (p scriptedPrompter) Prompt(string) (string, error) { return p.answer, nil }

func TestContext_PromptConfirmation(t *testing.T) {
	sim := ble.NewSim()
	var out bytes.Buffer
	tc := New(sim, WithOutput(&out), WithPrompter(scriptedPrompter{answer: "y"}))

	tc.StartTest("mod.test_prompt", "prompt test")
	answer, err := tc.PromptConfirmation("Is the LED on? (y/n)")
	require.NoError(t, err)
	assert.Equal(t, "y", answer)

	r := tc.EndTest(domain.StatusPass, "")
	require.NotNil(t, r)
	// Question and answer are both captured in the test log.
	assert.GreaterOrEqual(t, len(r.Logs), 2)
}
