package upload

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF는 파싱 가능한 1페이지 PDF를 조립합니다.
// xref 오프셋은 조립 시점에 계산하므로 항상 유효합니다.
func minimalPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 4)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

// fileHeader는 실제 multipart 폼을 조립/파싱해서 FileHeader를 만듭니다.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["resume"][0]
}

func storedFiles(t *testing.T, root string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	return entries
}

func TestProcessValidPDF(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	content := minimalPDF()
	fh := fileHeader(t, "이력서.pdf", content)

	d, err := v.Process(fh, Policy{AllowedExtensions: []string{"pdf"}})
	require.NoError(t, err)

	assert.Equal(t, "이력서.pdf", d.OriginalName)
	assert.NotEqual(t, d.OriginalName, d.StoredName) // 생성 이름으로 저장
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, int64(len(content)), d.Size)

	entries := storedFiles(t, root)
	require.Len(t, entries, 1)
	assert.Equal(t, d.StoredName, entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestProcessRejectsSpoofedExtension(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	// 확장자만 pdf인 텍스트 파일
	fh := fileHeader(t, "resume.pdf", []byte("plain text pretending to be a pdf"))

	_, err = v.Process(fh, Policy{AllowedExtensions: []string{"pdf"}})
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	// content-type 단계에서 거부되므로 디스크에 아무것도 남지 않아야 함
	assert.Len(t, storedFiles(t, root), 0)
}

func TestProcessRejectsCorruptPDFAfterWrite(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	// 매직 넘버는 PDF이지만 본문이 깨진 파일: 기록 후 무결성 검사에서 걸림
	fh := fileHeader(t, "broken.pdf", []byte("%PDF-1.4\nthis is not a parseable document"))

	_, err = v.Process(fh, Policy{AllowedExtensions: []string{"pdf"}})
	require.Error(t, err)

	// 기록된 파일이 정리되어야 함
	assert.Len(t, storedFiles(t, root), 0)
}

func TestProcessRejectsEmptyFile(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	fh := fileHeader(t, "resume.pdf", nil)

	_, err = v.Process(fh, Policy{})
	require.Error(t, err)
	assert.Len(t, storedFiles(t, root), 0)
}

func TestProcessRejectsOversizeFile(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	fh := fileHeader(t, "resume.pdf", minimalPDF())

	_, err = v.Process(fh, Policy{AllowedExtensions: []string{"pdf"}, MaxBytes: 10})
	require.Error(t, err)
	assert.Len(t, storedFiles(t, root), 0)
}

func TestProcessRejectsDisallowedExtension(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	fh := fileHeader(t, "malware.exe", []byte("MZ......"))

	_, err = v.Process(fh, Policy{})
	require.Error(t, err)
	assert.Len(t, storedFiles(t, root), 0)
}

func TestProcessAllowsTextWhenPolicyPermits(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	fh := fileHeader(t, "cover.txt", []byte("안녕하세요. 지원 동기입니다."))

	d, err := v.Process(fh, Policy{AllowedExtensions: []string{"txt", "pdf"}})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", d.ContentType)
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	v, err := NewValidator(root)
	require.NoError(t, err)

	d, err := v.Process(fileHeader(t, "resume.pdf", minimalPDF()), Policy{AllowedExtensions: []string{"pdf"}})
	require.NoError(t, err)
	require.Len(t, storedFiles(t, root), 1)

	v.Remove(d)
	assert.Len(t, storedFiles(t, root), 0)

	// 이미 지워진 기술자에 대한 호출은 무해해야 함
	v.Remove(d)
	v.Remove(nil)
}
