package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hush/internal/blocklist"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(map[string]string{"result": "success"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error("NOT_FOUND", "number is not blocked", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "number is not blocked", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("Blocked +15551234567"))
	assert.Equal(t, "Blocked +15551234567\n", buf.String())
}

func TestOutputFormatter_Render(t *testing.T) {
	data := RemoveResult{Number: "+1001", Removed: true}
	text := func(w io.Writer) { fmt.Fprintln(w, "human") }

	jsonBuf := &bytes.Buffer{}
	require.NoError(t, (&OutputFormatter{Format: "json", Writer: jsonBuf}).Render(data, text))
	assert.Equal(t, `{"status":"ok","data":{"number":"+1001","removed":true}}`+"\n", jsonBuf.String())

	textBuf := &bytes.Buffer{}
	require.NoError(t, (&OutputFormatter{Format: "text", Writer: textBuf}).Render(data, text))
	assert.Equal(t, "human\n", textBuf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	err := formatter.Error("STORAGE_ERROR", "disk I/O error", map[string]string{"op": "upsert"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [STORAGE_ERROR]: disk I/O error")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Fail(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantExit    int
		wantMessage string
	}{
		{
			name:        "not found",
			err:         blocklist.NotFoundError("remove", "+1001"),
			wantCode:    "NOT_FOUND",
			wantExit:    ExitNotFound,
			wantMessage: "number is not blocked",
		},
		{
			name:        "invalid input",
			err:         blocklist.InvalidInputError("upsert", "number is required"),
			wantCode:    "INVALID_INPUT",
			wantExit:    ExitInvalidInput,
			wantMessage: "number is required",
		},
		{
			name:        "storage",
			err:         blocklist.StorageError("upsert", "+1001", errors.New("disk I/O error")),
			wantCode:    "STORAGE_ERROR",
			wantExit:    ExitStorage,
			wantMessage: "disk I/O error",
		},
		{
			name:        "invalid transition",
			err:         blocklist.InvalidTransitionError("mark synced", "+1001", blocklist.SyncConflict, blocklist.SyncSynced),
			wantCode:    "INVALID_TRANSITION",
			wantExit:    ExitInvalidTransition,
			wantMessage: "cannot move from conflict to synced",
		},
		{
			name:        "foreign error",
			err:         errors.New("boom"),
			wantCode:    "STORAGE_ERROR",
			wantExit:    ExitStorage,
			wantMessage: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: buf}

			err := formatter.Fail("op", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.True(t, IsReported(err))
			assert.ErrorIs(t, err, tt.err)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: tt.verbose}

			formatter.VerboseLog("opening %s", "hush.db")

			assert.Empty(t, out.String(), "diagnostics must not corrupt JSON output")
			if tt.wantLog {
				assert.Contains(t, diag.String(), "opening hush.db")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitStorage, GetExitCode(NewExitError(ExitStorage, "x")))
	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitInvalidInput, "inner", errors.New("cause")))
	assert.Equal(t, ExitInvalidInput, GetExitCode(wrapped))
	assert.Equal(t, "outer: inner: cause", wrapped.Error())
}
