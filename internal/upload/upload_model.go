package upload

// Descriptor는 저장에 성공한 업로드 1건의 기술자입니다.
// RelativePath는 인스턴스 루트 기준 상대 경로이며, 절대 경로나
// 웹 서빙 경로를 담지 않습니다.
type Descriptor struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"` // 충돌/경로 조작 방지를 위한 생성 이름
	RelativePath string `json:"relative_path"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
}

// Policy는 공고별 업로드 제약입니다. 비어 있는 필드는 전역 기본값을 따릅니다.
type Policy struct {
	AllowedExtensions []string
	MaxBytes          int64
}

// ValidationError는 사용자에게 그대로 보여줄 수 있는 검증 실패입니다.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func reject(reason string) error {
	return &ValidationError{Reason: reason}
}
