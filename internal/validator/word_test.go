package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	v := NewWordValidator()

	for _, s := range []string{"猫", "你好", "中华人民共和国", " 词 "} {
		assert.True(t, v.IsValid(s), "%q should be valid", s)
	}
	for _, s := range []string{"", "   ", "hello", "你 好", "这是一个太长的词语例子啊", "123"} {
		assert.False(t, v.IsValid(s), "%q should be invalid", s)
	}
}
