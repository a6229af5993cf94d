package upload

import (
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// 전역 기본 업로드 제약
var (
	DefaultExtensions = []string{"pdf", "doc", "docx"}
)

const DefaultMaxBytes int64 = 5 * 1024 * 1024 // 5MB

// 확장자별로 허용되는 sniffing 결과입니다.
// (http.DetectContentType은 제한된 집합만 반환하므로 docx=zip,
// doc=octet-stream 같은 경우를 포함합니다)
var allowedMimeTypes = map[string][]string{
	"pdf":  {"application/pdf"},
	"doc":  {"application/msword", "application/octet-stream"},
	"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip", "application/octet-stream"},
	"txt":  {"text/plain"},
	"jpg":  {"image/jpeg"},
	"jpeg": {"image/jpeg"},
	"png":  {"image/png"},
}

// Validator는 업로드 검증 파이프라인입니다.
// 각 단계는 실패 시 즉시 거부하며, 이미 기록된 파일은 삭제됩니다.
type Validator struct {
	root string // 서빙 트리 바깥의 저장 루트 (절대 경로)
}

// NewValidator는 저장 루트 디렉터리를 보장하고 Validator를 생성합니다.
func NewValidator(root string) (*Validator, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("업로드 루트 생성 실패: %w", err)
	}
	return &Validator{root: root}, nil
}

// Process는 선형 검증 파이프라인을 수행합니다:
// 확장자 → 크기 → content-type 교차 검사 → 저장 → 무결성 검사.
func (v *Validator) Process(fh *multipart.FileHeader, policy Policy) (*Descriptor, error) {
	// 1. 파일 존재/확장자 검사
	if fh == nil || fh.Filename == "" {
		return nil, reject("첨부 파일이 없습니다.")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	allowed := policy.AllowedExtensions
	if len(allowed) == 0 {
		allowed = DefaultExtensions
	}
	if !contains(allowed, ext) {
		return nil, reject(fmt.Sprintf("허용되지 않는 파일 형식입니다. (허용: %s)", strings.Join(allowed, ", ")))
	}

	// 2. 크기 검사
	maxBytes := policy.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if fh.Size == 0 {
		return nil, reject("빈 파일은 업로드할 수 없습니다.")
	}
	if fh.Size > maxBytes {
		return nil, reject(fmt.Sprintf("파일이 너무 큽니다. (최대 %dMB)", maxBytes/(1024*1024)))
	}

	// 3. content-type 교차 검사 (확장자 위조 방어)
	src, err := fh.Open()
	if err != nil {
		return nil, reject("파일을 읽을 수 없습니다.")
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return nil, reject("파일을 읽을 수 없습니다.")
	}
	contentType := mediaType(http.DetectContentType(head[:n]))
	if contentType == "application/octet-stream" {
		// sniffing이 판별하지 못하면 확장자 기반 추정으로 폴백
		if guessed := mediaType(mime.TypeByExtension("." + ext)); guessed != "" {
			contentType = guessed
		}
	}
	if err := checkContentType(ext, contentType, allowed); err != nil {
		return nil, err
	}

	// 4. 저장 (생성 이름으로 충돌/경로 조작 방지)
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, reject("파일을 읽을 수 없습니다.")
	}
	storedName := uuid.NewString() + "." + ext
	absPath := filepath.Join(v.root, storedName)

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		log.Printf("[ERROR] 업로드 파일 생성 실패: %v", err)
		return nil, reject("파일 저장에 실패했습니다.")
	}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		v.discard(absPath)
		return nil, reject("파일 저장에 실패했습니다.")
	}

	// 5. 무결성 검사 (기록 후 재검증)
	if err := v.integrityScan(absPath, ext, written, maxBytes); err != nil {
		v.discard(absPath)
		return nil, err
	}

	return &Descriptor{
		OriginalName: filepath.Base(fh.Filename),
		StoredName:   storedName,
		RelativePath: filepath.Join("uploads", storedName),
		Size:         written,
		ContentType:  contentType,
	}, nil
}

// Remove는 저장된 업로드를 삭제합니다. (지원서 저장 실패 시 호출)
func (v *Validator) Remove(d *Descriptor) {
	if d == nil {
		return
	}
	v.discard(filepath.Join(v.root, d.StoredName))
}

// checkContentType은 선언된 확장자와 감지된 타입의 정합을 검사합니다.
// 허용 목록이 정확히 {pdf}이면 application/pdf와의 엄격한 일치를 요구합니다.
func checkContentType(ext, contentType string, allowed []string) error {
	if len(allowed) == 1 && allowed[0] == "pdf" {
		if contentType != "application/pdf" {
			return reject("PDF 형식이 아닙니다. 올바른 PDF 파일을 업로드해 주세요.")
		}
		return nil
	}
	accepted, ok := allowedMimeTypes[ext]
	if !ok {
		return reject("허용되지 않는 파일 형식입니다.")
	}
	if !contains(accepted, contentType) {
		return reject("파일 내용이 확장자와 일치하지 않습니다.")
	}
	return nil
}

// integrityScan은 악성 파일 스캔 자리의 placeholder입니다.
// 최소한 디스크에 기록된 파일이 읽기 가능하고, 비어 있지 않고,
// 크기 제한 내인지 재확인합니다. PDF는 파싱 가능 여부까지 봅니다.
func (v *Validator) integrityScan(path, ext string, expectedSize, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return reject("저장된 파일을 확인할 수 없습니다.")
	}
	if info.Size() == 0 || info.Size() != expectedSize || info.Size() > maxBytes {
		return reject("저장된 파일이 손상되었습니다.")
	}

	if ext == "pdf" {
		f, r, err := pdf.Open(path)
		if err != nil {
			return reject("PDF 파일을 해석할 수 없습니다.")
		}
		defer f.Close()
		if r.NumPage() < 1 {
			return reject("비어 있는 PDF 문서입니다.")
		}
	}
	return nil
}

func (v *Validator) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] 업로드 잔여 파일 삭제 실패: %v", err)
	}
}

// mediaType은 "text/plain; charset=utf-8" 같은 값에서 파라미터를 떼어냅니다.
func mediaType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.TrimSpace(strings.Split(ct, ";")[0])
	}
	return mt
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
