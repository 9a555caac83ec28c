/*
包 llm 提供统一的大语言模型接入抽象。

本包目标是屏蔽不同模型服务商在接口、鉴权和流式协议上的差异，对
协作引擎暴露一致的流式调用模型。具体的服务商 HTTP 实现不在本包内：
引擎只依赖 [Client] 接口，生产环境由外部适配层注入实现，测试使用
testutil/mocks 中的脚本化实现。

# Client 抽象

核心接口是 [Client]，只包含流式补全与标识两个方法。流式输出通过
[StreamChunk] 通道传递，取消通过 context 传播。

# Registry 与可用性

[Registry] 管理多个 Client，并维护来自外部凭据子系统的可用性标记。
引擎在每次运行开始时用 [Registry.FilterAvailable] 过滤请求的服务商
列表，绝不调用可用性为 false 的服务商。

# 上下文窗口

[ContextWindow] 按模型标识前缀匹配已知上下文窗口表，未命中时回退到
服务商级默认值。协作引擎用它为合成角色挑选上下文最大的参与者。
*/
package llm
