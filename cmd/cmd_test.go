package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikigai-ua/formrelay/internal/build"
	"github.com/ikigai-ua/formrelay/internal/config"
	"github.com/ikigai-ua/formrelay/internal/service"
	svcmocks "github.com/ikigai-ua/formrelay/internal/service/mocks"
	"github.com/ikigai-ua/formrelay/internal/storage"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Port:          8080,
		AllowedOrigin: "https://ikigai.com.ua",
		DataDir:       t.TempDir(),
		LogLevel:      "error",
		Timezone:      "Europe/Kyiv",
		StoreDriver:   config.StoreDriverSQLite,
	}
}

func staticLoader(cfg *config.AppConfig) ConfigLoader {
	return func() (*config.AppConfig, error) { return cfg, nil }
}

func failingLoader(err error) ConfigLoader {
	return func() (*config.AppConfig, error) { return nil, err }
}

func execute(t *testing.T, cfg *config.AppConfig, args ...string) (string, error) {
	t.Helper()
	return executeWith(t, staticLoader(cfg), args...)
}

func executeWith(t *testing.T, load ConfigLoader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(load)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, testConfig(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "formrelay "+build.String()+"\n", out)
}

func TestRootCmd_ConfigLoadedOnlyWhenNeeded(t *testing.T) {
	loadErr := errors.New("loading config: MONGODB_URL is required when STORE_DRIVER=mongo")

	t.Run("version ignores a broken environment", func(t *testing.T) {
		out, err := executeWith(t, failingLoader(loadErr), "version")
		require.NoError(t, err)
		assert.Contains(t, out, build.Version)
	})

	t.Run("help ignores a broken environment", func(t *testing.T) {
		for _, args := range [][]string{{"--help"}, {"help"}, {"serve", "--help"}, {"submissions"}} {
			out, err := executeWith(t, failingLoader(loadErr), args...)
			require.NoError(t, err, args)
			assert.Contains(t, out, "Usage:", args)
		}
	})

	t.Run("commands that need config report the load error", func(t *testing.T) {
		for _, args := range [][]string{{"serve"}, {"submissions", "list"}, {"test-mail"}} {
			_, err := executeWith(t, failingLoader(loadErr), args...)
			assert.ErrorIs(t, err, loadErr, args)
		}
	})

	t.Run("loader not called for version", func(t *testing.T) {
		calls := 0
		load := func() (*config.AppConfig, error) {
			calls++
			return testConfig(t), nil
		}
		_, err := executeWith(t, load, "version")
		require.NoError(t, err)
		assert.Zero(t, calls)
	})
}

func TestSubmissionsList(t *testing.T) {
	cfg := testConfig(t)

	db, _, err := storage.NewSQLiteDB(cfg.DBPath())
	require.NoError(t, err)
	store := storage.NewSQLiteSubmissionStore(db)
	for _, name := range []string{"Олена", "Тарас"} {
		_, err := store.Add(context.Background(), storage.NewSubmission{Name: name, Phone: "+380501234567", Message: service.NoComment})
		require.NoError(t, err)
	}
	require.NoError(t, store.Close())

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, cfg, "submissions", "list", "--json")
		require.NoError(t, err)

		var subs []storage.Submission
		require.NoError(t, json.Unmarshal([]byte(out), &subs))
		require.Len(t, subs, 2)
		assert.Equal(t, "Тарас", subs[0].Name)
		assert.Equal(t, "Олена", subs[1].Name)
	})

	t.Run("table with limit", func(t *testing.T) {
		out, err := execute(t, cfg, "submissions", "list", "-n", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Тарас")
		assert.NotContains(t, out, "Олена")
		assert.Contains(t, out, "NAME")
	})
}

func TestRenderSubmissions_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderSubmissions(&buf, nil, time.UTC)
	assert.Contains(t, buf.String(), "No contact requests yet.")
}

func TestRenderSubmissions_Rows(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	var buf bytes.Buffer
	renderSubmissions(&buf, []storage.Submission{{
		ID:         "rec-1",
		Name:       "Олена",
		Phone:      "+380501234567",
		Message:    "Передзвоніть після обіду",
		Status:     storage.StatusNew,
		ReceivedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}}, loc)

	out := buf.String()
	assert.Contains(t, out, "17.10.2026 12:30")
	assert.Contains(t, out, "Олена")
	assert.Contains(t, out, "Передзвоніть після обіду")
	assert.Contains(t, out, "new")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "коротко", truncate("коротко", 10))
	assert.Equal(t, "довгий…", truncate("довгий коментар", 7))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, bannerInfo{
		Version:   "v1.2.3",
		ServerURL: "http://localhost:8080",
		Origin:    "https://ikigai.com.ua",
		Store:     "sqlite",
	})

	out := buf.String()
	assert.Contains(t, out, "formrelay v1.2.3")
	assert.Contains(t, out, "http://localhost:8080/submitForm")
	assert.Contains(t, out, "https://ikigai.com.ua")
	assert.NotContains(t, out, "Logs")
}

func TestTestMail(t *testing.T) {
	newCmd := func() (*cobra.Command, *bytes.Buffer) {
		var out bytes.Buffer
		c := &cobra.Command{}
		c.SetOut(&out)
		c.SetContext(context.Background())
		return c, &out
	}

	t.Run("sent", func(t *testing.T) {
		svc := new(svcmocks.MockSubmissionService)
		svc.On("SendTest", context.Background()).Return(nil).Once()
		c, out := newCmd()

		require.NoError(t, runTestMail(c, svc, "owner@ikigai.com.ua"))
		assert.Contains(t, out.String(), "test email sent to owner@ikigai.com.ua")
		svc.AssertExpectations(t)
	})

	t.Run("config incomplete", func(t *testing.T) {
		svc := new(svcmocks.MockSubmissionService)
		svc.On("SendTest", context.Background()).
			Return(&service.ConfigError{Missing: []string{"SMTP_HOST", "SMTP_PASS"}}).Once()
		c, out := newCmd()

		err := runTestMail(c, svc, "")
		var ce *service.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Contains(t, out.String(), "missing SMTP_HOST")
		assert.Contains(t, out.String(), "missing SMTP_PASS")
	})

	t.Run("delivery failure", func(t *testing.T) {
		svc := new(svcmocks.MockSubmissionService)
		svc.On("SendTest", context.Background()).
			Return(&service.DeliveryError{Provider: "smtp", Err: errors.New("535 auth failed")}).Once()
		c, out := newCmd()

		require.Error(t, runTestMail(c, svc, "owner@ikigai.com.ua"))
		assert.Contains(t, out.String(), "test email not sent")
	})

	t.Run("missing settings end to end", func(t *testing.T) {
		_, err := execute(t, testConfig(t), "test-mail")
		var ce *service.ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASS", "RECEIVING_EMAIL"}, ce.Missing)
	})
}
