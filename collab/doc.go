/*
Package collab 实现多模型结构化协作引擎。

一次运行（Run）在硬性时钟期限与硬性美元预算约束下，把一个用户提示
分发给多个模型参与者，按所选协议的阶段序列推进（起草、互评、投票、
验证、合成等），最终归一化为单一结果。

# 协议

支持十种协作模式（见 [Mode]）：从无协作的 individual 到圆桌、顺序
批判链、验证共识、头脑风暴、守护智囊团、代码架构流水线、对抗辩论、
专家小组与情景分析。每种模式是一个严格有序的阶段状态机。

# 资源治理

所有阻塞调用共享一个带期限的 context；流式输出的每个片段都会触发
记账（llm/budget）、事件发布与取消/预算检查，因此最细粒度的中止点
是片段而非调用。阶段内默认串行执行以规避上游限流，并可通过
RunOptions.ParallelPhases 显式开启阶段内并行。

# 失败语义

单个参与者失败只产生错误工件，阶段继续；阶段内全部失败才是阶段失败。
期限或预算触发的中止在 ToleratePartial 开启且已有工件时退化为部分
结果而非裸错误。任何错误都不会逃出 [Engine.Run]：所有结局被归一化为
同一结果形态。
*/
package collab
