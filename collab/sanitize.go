package collab

import "regexp"

// 提示净化：对注入语式与疑似敏感数据做模式替换。
// 这是纯字符串变换，不构成安全边界；真正的隔离靠角色分离
// 与各服务商侧的内容策略。

const redactionMarker = "[REDACTED]"

var sanitizePatterns = []*regexp.Regexp{
	// 常见注入语式
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior)\s+(instructions|prompts)`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?system\s+prompt`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+in\s+developer\s+mode`),
	// 疑似凭据与密钥
	regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`),
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{30,}\b`),
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`),
	// 个人标识
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
}

// SanitizePrompt 将命中的模式替换为遮蔽标记。纯函数。
func SanitizePrompt(prompt string) string {
	out := prompt
	for _, re := range sanitizePatterns {
		out = re.ReplaceAllString(out, redactionMarker)
	}
	return out
}
