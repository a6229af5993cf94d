package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionList(t *testing.T) {
	type TestCase struct {
		Name     string
		CSV      string
		Expected []string
	}

	testCases := []TestCase{
		{Name: "빈 값은 nil (전역 기본값 적용)", CSV: "", Expected: nil},
		{Name: "공백만 있어도 nil", CSV: "   ", Expected: nil},
		{Name: "기본 목록", CSV: "pdf,doc,docx", Expected: []string{"pdf", "doc", "docx"}},
		{Name: "공백/대문자/점 정규화", CSV: " PDF, .Docx ,doc", Expected: []string{"pdf", "docx", "doc"}},
		{Name: "빈 토큰은 건너뜀", CSV: "pdf,,docx,", Expected: []string{"pdf", "docx"}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			j := &Job{AllowedExtensions: tc.CSV}
			assert.Equal(t, tc.Expected, j.ExtensionList())
		})
	}
}
