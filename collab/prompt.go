package collab

import "strings"

// PromptPair 是一次模型调用的系统/用户提示对。
type PromptPair struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// PersonaTable 将参与者名称映射到其人设系统提示。
type PersonaTable map[string]string

// DefaultPersonas 返回各服务商的基础人设。
// 人设在运行期只读；协议可在阶段指令中叠加角色定位。
func DefaultPersonas() PersonaTable {
	return PersonaTable{
		"claude":   "You are Claude, a thoughtful analyst who values nuance, careful reasoning, and intellectual honesty.",
		"gpt":      "You are GPT, a versatile generalist who answers with structure, breadth, and practical examples.",
		"gemini":   "You are Gemini, a rigorous researcher who grounds answers in evidence and cross-checks claims.",
		"deepseek": "You are DeepSeek, a precise technical thinker who favors first-principles reasoning.",
		"qwen":     "You are Qwen, a pragmatic problem solver who balances depth with clarity.",
		"glm":      "You are GLM, a systematic reasoner who breaks problems into verifiable steps.",
	}
}

// BuildPrompt 从基础提示、人设、风格指令与阶段指令构造提示对。
// 纯函数：无副作用、无网络调用，相同输入产生字节一致的输出。
func BuildPrompt(userPrompt, persona, style, instruction string) PromptPair {
	var sys strings.Builder
	if persona != "" {
		sys.WriteString(persona)
	}
	if style != "" {
		if sys.Len() > 0 {
			sys.WriteString("\n\n")
		}
		sys.WriteString("Style directive: ")
		sys.WriteString(style)
	}
	if instruction != "" {
		if sys.Len() > 0 {
			sys.WriteString("\n\n")
		}
		sys.WriteString(instruction)
	}
	return PromptPair{System: sys.String(), User: userPrompt}
}

// personaFor 返回参与者人设，未配置时给出中性人设。
func (t PersonaTable) personaFor(agent string) string {
	if p, ok := t[agent]; ok {
		return p
	}
	return "You are " + agent + ", a capable AI assistant collaborating with peers."
}

// 合成指令与答案切分标签。合成者被要求输出带标签的
// “最终答案”与“理由”两段；标签缺失时整段视为答案。
const (
	answerLabel    = "FINAL ANSWER:"
	rationaleLabel = "RATIONALE:"
)

// synthesisInstruction 要求合成者按标签输出。
const synthesisInstruction = "Produce your response in two labeled sections:\n" +
	answerLabel + " <the synthesized final answer>\n" +
	rationaleLabel + " <why this answer, citing the contributions you drew on>"

// genericRationale 标签缺失时的兜底理由。
const genericRationale = "Synthesized from the collaboration phases; the synthesizer did not provide an explicit rationale."

// splitAnswer 按理由标签切分合成输出。
// 标签缺失时整个响应作为答案，理由用通用占位。
func splitAnswer(text string) (answer, rationale string) {
	for _, label := range []string{rationaleLabel, "Rationale:", "REASONING:", "Reasoning:"} {
		if idx := strings.Index(text, label); idx >= 0 {
			answer = strings.TrimSpace(text[:idx])
			rationale = strings.TrimSpace(text[idx+len(label):])
			answer = strings.TrimSpace(strings.TrimPrefix(answer, answerLabel))
			if answer == "" {
				answer = rationale
			}
			if rationale == "" {
				rationale = genericRationale
			}
			return answer, rationale
		}
	}
	answer = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), answerLabel))
	return answer, genericRationale
}
