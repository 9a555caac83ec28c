// Package tokenizer 提供统一的 Token 估算接口，
// 支持 tiktoken 精确计数与 CJK 估算器回退，用于协作运行的成本记账。
package tokenizer
