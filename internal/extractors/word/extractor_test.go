package word

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/testutil"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	calls  [][]string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.output, m.err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

// oleFile returns bytes carrying the compound file magic.
func oleFile() []byte {
	data := make([]byte, 1024)
	copy(data, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	return data
}

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.Equal(t, domain.FormatWord, e.Format())
	assert.Equal(t, DefaultAntiword, e.antiword)
	assert.IsType(t, ExecRunner{}, e.runner)
}

func TestNew_Options(t *testing.T) {
	runner := &mockRunner{}
	e := New(WithRunner(runner), WithAntiword("/opt/bin/antiword"))
	assert.Same(t, runner, e.runner)
	assert.Equal(t, "/opt/bin/antiword", e.antiword)

	e = New(WithRunner(nil), WithAntiword(""))
	assert.IsType(t, ExecRunner{}, e.runner)
	assert.Equal(t, DefaultAntiword, e.antiword)
}

func TestExtract_Docx(t *testing.T) {
	path := writeFile(t, "Cover_Letter.docx", testutil.MinimalDOCX(
		"Dear hiring manager,",
		"I led the payments migration & cut latency by 40%.",
	))

	blocks, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Dear hiring manager,\nI led the payments migration & cut latency by 40%.", blocks[0].Text)
	assert.Equal(t, path, blocks[0].Source)
	assert.Zero(t, blocks[0].Page)
}

func TestExtract_DocThatIsReallyDocx(t *testing.T) {
	runner := &mockRunner{}
	path := writeFile(t, "renamed.DOC", testutil.MinimalDOCX("modern content"))

	blocks, err := New(WithRunner(runner)).Extract(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "modern content", blocks[0].Text)
	assert.Empty(t, runner.calls)
}

func TestExtract_LegacyDoc(t *testing.T) {
	runner := &mockRunner{output: []byte("  Legacy résumé text\n\n")}
	path := writeFile(t, "old.doc", oleFile())

	blocks, err := New(WithRunner(runner), WithAntiword("aw")).Extract(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Legacy résumé text", blocks[0].Text)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"aw", path}, runner.calls[0])
}

func TestExtract_LegacyDocWithoutConverter(t *testing.T) {
	runner := &mockRunner{err: &exec.Error{Name: "antiword", Err: exec.ErrNotFound}}
	path := writeFile(t, "old.doc", oleFile())

	_, err := New(WithRunner(runner)).Extract(context.Background(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "antiword")
}

func TestExtract_LegacyDocConverterFails(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	path := writeFile(t, "old.doc", oleFile())

	_, err := New(WithRunner(runner)).Extract(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert legacy .doc")
}

func TestExtract_NotAWordFile(t *testing.T) {
	path := writeFile(t, "plain.docx", []byte("hello, I am text"))

	_, err := New().Extract(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_ZipWithoutDocument(t *testing.T) {
	data := testutil.MinimalDOCX("x")
	// Rename the part so the package no longer has a body.
	broken := strings.Replace(string(data), "word/document.xml", "word/documenX.xml", -1)
	path := writeFile(t, "nobody.docx", []byte(broken))

	_, err := New().Extract(context.Background(), path)

	assert.Error(t, err)
}

func TestParseDocumentXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "paragraphs",
			xml:  `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>One</w:t></w:r></w:p><w:p><w:r><w:t>Two</w:t></w:r></w:p></w:body></w:document>`,
			want: "One\nTwo",
		},
		{
			name: "runs joined",
			xml:  `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>Go</w:t></w:r><w:r><w:t>pher</w:t></w:r></w:p></w:body></w:document>`,
			want: "Gopher",
		},
		{
			name: "tabs and breaks",
			xml:  `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p></w:body></w:document>`,
			want: "a\tb\nc",
		},
		{
			name: "table cells",
			xml: `<w:document xmlns:w="w"><w:body><w:tbl><w:tr><w:tc><w:p><w:r><w:t>Role</w:t></w:r></w:p></w:tc>` +
				`<w:tc><w:p><w:r><w:t>Lead</w:t></w:r></w:p></w:tc></w:tr></w:tbl></w:body></w:document>`,
			want: "Role\nLead",
		},
		{
			name: "ignores non-text elements",
			xml:  `<w:document xmlns:w="w"><w:body><w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Only</w:t></w:r></w:p></w:body></w:document>`,
			want: "Only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDocumentXML(strings.NewReader(tt.xml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDocumentXML_Malformed(t *testing.T) {
	_, err := parseDocumentXML(strings.NewReader(`<w:document><w:body><w:p>`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExecRunner(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), fmt.Sprintf("definitely-not-installed-%d", os.Getpid()))
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
