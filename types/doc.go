/*
Package types 提供 Conclave 引擎的全局共享类型定义。

types 是最底层的公共包，不依赖任何其他内部包，为 llm、budget、collab
等上层模块提供统一的错误契约。所有跨包共享的错误码均定义于此，
以避免循环依赖。

  - Error / ErrorCode — 结构化错误体系，含 Retryable、Provider 标记
  - WithCause / WithRetryable / WithProvider — 链式构造
  - GetErrorCode / IsCode — 错误码提取与判定
*/
package types
