package notify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_WritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	sink := FileSink{Path: path}

	require.NoError(t, sink.Deliver(context.Background(), "<html>report</html>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>report</html>", string(data))
}

func TestFileSink_OverwritesPreviousReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	sink := FileSink{Path: path}

	require.NoError(t, sink.Deliver(context.Background(), "old"))
	require.NoError(t, sink.Deliver(context.Background(), "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileSink_ReportsWriteErrors(t *testing.T) {
	sink := FileSink{Path: filepath.Join(t.TempDir(), "missing", "report.html")}
	require.Error(t, sink.Deliver(context.Background(), "report"))
}

func TestEmailSink_RejectsInvalidAddresses(t *testing.T) {
	sink := EmailSink{
		Host:    "smtp.example.com",
		Port:    587,
		From:    "not an address",
		To:      "recipient@example.com",
		Token:   "secret",
		Subject: "Git Commit Notification",
	}

	err := sink.Deliver(context.Background(), "<html>report</html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender address")
}
