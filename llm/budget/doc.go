// Package budget 提供单次协作运行的 token 用量记账与成本控制。
//
// Ledger 按服务商、按方向（输入/输出）将估算的 token 数折算为美元成本，
// 在流式输出的每个片段处累计；一旦累计达到预算上限，ShouldAbort 恒为
// true，执行器据此在片段粒度中止运行。费率表与协议系数是可外部配置的
// 数据（见 RateTable / Multipliers 与 config 包），不硬编码进协议逻辑。
package budget
