package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner simulates soffice: it drops <basename>.pdf into --outdir.
type fakeRunner struct {
	err    error
	stderr string
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte(f.stderr), f.err
	}

	var outDir, input string
	for i, a := range args {
		if a == "--outdir" && i+1 < len(args) {
			outDir = args[i+1]
		}
		input = args[len(args)-1]
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	produced := filepath.Join(outDir, base+".pdf")
	if err := os.WriteFile(produced, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		return nil, nil, err
	}
	return []byte("convert ok"), nil, nil
}

func TestDetectUnavailable(t *testing.T) {
	got := Detect("definitely-not-a-real-binary-glr", nil)

	assert.False(t, got.Available)
	assert.Nil(t, got.Converter)
	assert.Contains(t, got.Reason, "pdf conversion unavailable")
	assert.Contains(t, got.Reason, "definitely-not-a-real-binary-glr")
}

func TestLibreOfficeConvertRenamesOutput(t *testing.T) {
	dir := t.TempDir()
	docxPath := filepath.Join(dir, "Completed_GLR.docx")
	require.NoError(t, os.WriteFile(docxPath, []byte("docx bytes"), 0o644))

	runner := &fakeRunner{}
	lo := &LibreOffice{binary: "soffice", runner: runner, log: testLogger()}

	pdfPath := filepath.Join(dir, "Report.pdf")
	require.NoError(t, lo.Convert(context.Background(), docxPath, pdfPath))

	st, err := os.Stat(pdfPath)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))

	// soffice's own naming must not linger after the rename.
	_, err = os.Stat(filepath.Join(dir, "Completed_GLR.pdf"))
	assert.True(t, os.IsNotExist(err))

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "soffice", call[0])
	assert.Contains(t, call, "--headless")
	assert.Contains(t, call, "--convert-to")
	assert.Contains(t, call, "pdf")
	assert.Contains(t, call, docxPath)
}

func TestLibreOfficeConvertMatchingName(t *testing.T) {
	dir := t.TempDir()
	docxPath := filepath.Join(dir, "Completed_GLR.docx")
	require.NoError(t, os.WriteFile(docxPath, []byte("docx bytes"), 0o644))

	lo := &LibreOffice{binary: "soffice", runner: &fakeRunner{}, log: testLogger()}

	pdfPath := filepath.Join(dir, "Completed_GLR.pdf")
	require.NoError(t, lo.Convert(context.Background(), docxPath, pdfPath))

	_, err := os.Stat(pdfPath)
	require.NoError(t, err)
}

func TestLibreOfficeConvertCommandFailure(t *testing.T) {
	dir := t.TempDir()
	docxPath := filepath.Join(dir, "in.docx")
	require.NoError(t, os.WriteFile(docxPath, []byte("docx bytes"), 0o644))

	lo := &LibreOffice{
		binary: "soffice",
		runner: &fakeRunner{err: errors.New("exit status 77"), stderr: "source file could not be loaded"},
		log:    testLogger(),
	}

	err := lo.Convert(context.Background(), docxPath, filepath.Join(dir, "out.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 77")
	assert.Contains(t, err.Error(), "source file could not be loaded")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, long[:10]+"...(truncated)", truncate(long, 10))
}
