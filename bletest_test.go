package bletest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bletest/ble"
	"bletest/domain"
	"bletest/suite"
	"bletest/testctx"
)

var echoChar = uuid.MustParse("0000feed-0000-1000-8000-00805f9b34fb")

type yesPrompter struct{}

func (yesPrompter) Prompt(question string) (string, error) { return "y", nil }

func writeTestFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("package demo\n"), 0644))
}

// registerEchoSuite registers one standalone and one group test. The group
// test round-trips a write through the device's notification path.
func registerEchoSuite(t *testing.T, reg *suite.Registry) {
	t.Helper()
	reg.Register("test_echo", func(s *suite.Suite) error {
		s.Test("test_prompt", func(ctx context.Context, dev ble.Device, tc *testctx.Context) error {
			answer, err := tc.PromptConfirmation("Did the device blink? (y/n)")
			if err != nil {
				return err
			}
			if answer != "y" {
				return domain.Failf("operator reported no blink")
			}
			return nil
		})

		g := s.Group("EchoTests")
		g.Test("test_roundtrip", func(ctx context.Context, self any, dev ble.Device, tc *testctx.Context) error {
			if err := dev.Write(ctx, echoChar, []byte{0x2a}, true); err != nil {
				return err
			}
			got, err := tc.WaitForNotification(ctx, echoChar, []byte{0x2a}, time.Second)
			if err != nil {
				return err
			}
			if got[0] != 0x2a {
				return domain.Failf("unexpected echo %x", got)
			}
			return nil
		})
		return nil
	})
}

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "test_echo.go")

	reg := suite.NewRegistry()
	registerEchoSuite(t, reg)

	sim := ble.NewSim()
	sim.OnWrite = func(char uuid.UUID, data []byte) {
		// Echo every write back as a notification, asynchronously like a
		// real peripheral.
		go sim.Push(char, data)
	}

	summary, errs := Run(context.Background(), sim, nil, Options{
		BaseDir:  root,
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Output:   io.Discard,
		Prompter: yesPrompter{},
	})

	require.Empty(t, errs)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 0, summary.Failed)

	// Group tests run before standalone tests.
	assert.Equal(t, "test_echo.EchoTests.test_roundtrip", summary.Results[0].Name)
	assert.Equal(t, "test_echo.test_prompt", summary.Results[1].Name)
}

func TestRun_BadSpecifierIsIsolated(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "test_echo.go")

	reg := suite.NewRegistry()
	registerEchoSuite(t, reg)

	sim := ble.NewSim()
	sim.OnWrite = func(char uuid.UUID, data []byte) { go sim.Push(char, data) }

	summary, errs := Run(context.Background(), sim, []string{"no_such_dir/*", "test_echo"}, Options{
		BaseDir:  root,
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Output:   io.Discard,
		Prompter: yesPrompter{},
	})

	require.Len(t, errs, 1)
	assert.Equal(t, 2, summary.Passed)
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "test_echo.go")

	reg := suite.NewRegistry()
	registerEchoSuite(t, reg)

	mods, errs := List(nil, Options{
		BaseDir:  root,
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.Empty(t, errs)
	require.Len(t, mods, 1)
	assert.Equal(t, "test_echo", mods[0].Module)
	require.Len(t, mods[0].Tests, 2)
	assert.Equal(t, "test_echo.EchoTests.test_roundtrip", mods[0].Tests[0].Name)
}
