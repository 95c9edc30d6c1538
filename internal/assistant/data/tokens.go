package data

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding 默认 tiktoken 编码
const DefaultEncoding = "cl100k_base"

// TiktokenCounter 基于 tiktoken 的 token 计数
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter 加载编码；首次加载需要下载词表
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TiktokenCounter{encoding: enc}, nil
}

// Count implements biz.TokenCounter
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// ApproxCounter 按每 4 个字符约 1 个 token 估算
type ApproxCounter struct{}

// Count implements biz.TokenCounter
func (ApproxCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}
