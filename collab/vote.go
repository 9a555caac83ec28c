package collab

import "strings"

// 投票提取：投票者的自由文本被扫描，取与投票关键词邻近共现的
// 第一个候选名；都不命中时回退为文中最先提到的候选名；仍无则弃票。

// Tuning 聚合引擎的启发式常量。
// 平票裁决与议题关键词阈值在历史实现中是无来源的魔数，
// 这里保留为可配置项而非硬编码，不假设它们已被调优。
type Tuning struct {
	// VoteKeywords 投票意图关键词。
	VoteKeywords []string `json:"vote_keywords" yaml:"vote_keywords"`
	// VoteProximity 关键词与候选名共现的最大字符距离。
	VoteProximity int `json:"vote_proximity" yaml:"vote_proximity"`
	// IssueKeywords 验证文本中的议题关键词。
	IssueKeywords []string `json:"issue_keywords" yaml:"issue_keywords"`
	// IssueThreshold 触发共识重写的关键词密度阈值（关键词数/词数）。
	IssueThreshold float64 `json:"issue_threshold" yaml:"issue_threshold"`
}

// DefaultTuning 返回内置启发式常量。
func DefaultTuning() Tuning {
	return Tuning{
		VoteKeywords:   []string{"vote", "choose", "select", "prefer", "pick"},
		VoteProximity:  80,
		IssueKeywords:  []string{"issue", "error", "incorrect", "wrong", "missing", "unsupported", "contradict", "inaccurate", "flaw"},
		IssueThreshold: 0.02,
	}
}

// ExtractVote 从投票文本中提取得票候选。
// 返回空串表示弃票；统计逻辑必须能处理弃票而不崩溃。
func (t Tuning) ExtractVote(reasoning string, candidates []string) string {
	if reasoning == "" || len(candidates) == 0 {
		return ""
	}
	lower := strings.ToLower(reasoning)

	// 第一优先：投票关键词附近的候选名
	bestPos := -1
	best := ""
	for _, kw := range t.VoteKeywords {
		from := 0
		for {
			idx := strings.Index(lower[from:], kw)
			if idx < 0 {
				break
			}
			idx += from
			for _, cand := range candidates {
				cpos := indexNear(lower, strings.ToLower(cand), idx, t.VoteProximity)
				if cpos >= 0 && (bestPos < 0 || cpos < bestPos) {
					bestPos = cpos
					best = cand
				}
			}
			from = idx + len(kw)
		}
	}
	if best != "" {
		return best
	}

	// 回退：全文中最先提到的候选名
	firstPos := -1
	for _, cand := range candidates {
		if idx := strings.Index(lower, strings.ToLower(cand)); idx >= 0 && (firstPos < 0 || idx < firstPos) {
			firstPos = idx
			best = cand
		}
	}
	return best
}

// indexNear 在 anchor 附近 window 字符内查找 sub，返回其绝对位置。
func indexNear(s, sub string, anchor, window int) int {
	lo := anchor - window
	if lo < 0 {
		lo = 0
	}
	hi := anchor + window
	if hi > len(s) {
		hi = len(s)
	}
	idx := strings.Index(s[lo:hi], sub)
	if idx < 0 {
		return -1
	}
	return lo + idx
}

// TallyVotes 统计得票并返回胜者与计票。
// 弃票（空串）被跳过。平票按候选列表顺序裁决：并列者中取最先列出的。
// 该裁决规则没有可靠出处，保持确定性但不视为定论（见 Tuning 注释）。
func TallyVotes(votes []string, candidates []string) (winner string, counts map[string]int) {
	counts = make(map[string]int, len(candidates))
	for _, v := range votes {
		if v == "" {
			continue
		}
		counts[v]++
	}
	max := 0
	for _, cand := range candidates {
		if counts[cand] > max {
			max = counts[cand]
			winner = cand
		}
	}
	return winner, counts
}

// issueDensity 计算议题关键词密度：命中次数 / 词数。
func (t Tuning) issueDensity(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range t.IssueKeywords {
		hits += strings.Count(lower, kw)
	}
	return float64(hits) / float64(len(words))
}
