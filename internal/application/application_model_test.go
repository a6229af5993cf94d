package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalStatus(t *testing.T) {
	type TestCase struct {
		Raw      string
		Expected string
	}

	testCases := []TestCase{
		// legacy 라벨은 canonical 값으로 접힘
		{Raw: "reviewed", Expected: StatusPending},
		{Raw: "shortlisted", Expected: StatusPending},
		{Raw: "applied", Expected: StatusPending},
		{Raw: "under_review", Expected: StatusPending},
		{Raw: "interview", Expected: StatusInterviewed},
		{Raw: "accepted", Expected: StatusHired},
		// canonical 값은 그대로 통과
		{Raw: StatusPending, Expected: StatusPending},
		{Raw: StatusScheduled, Expected: StatusScheduled},
		{Raw: StatusWithdrawn, Expected: StatusWithdrawn},
		// 알 수 없는 값은 변환하지 않음 (검증은 IsCanonicalStatus 담당)
		{Raw: "garbage", Expected: "garbage"},
	}

	for _, tc := range testCases {
		t.Run(tc.Raw, func(t *testing.T) {
			assert.Equal(t, tc.Expected, CanonicalStatus(tc.Raw))
		})
	}
}

func TestIsCanonicalStatus(t *testing.T) {
	for _, status := range []string{
		StatusPending, StatusScheduled, StatusInterviewed,
		StatusHired, StatusRejected, StatusWithdrawn,
	} {
		assert.True(t, IsCanonicalStatus(status), status)
	}

	assert.False(t, IsCanonicalStatus("reviewed")) // legacy는 저장 전 변환 필요
	assert.False(t, IsCanonicalStatus(""))
	assert.False(t, IsCanonicalStatus("PENDING"))
}
