package utils

import (
	"strings"

	"github.com/google/uuid"
)

func NewID() string { return uuid.NewString() }

// IsUUID 校验路径参数等外部输入
func IsUUID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil && len(strings.TrimSpace(s)) == 36
}
