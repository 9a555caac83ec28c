// =============================================================================
// Conclave 命令行入口
// =============================================================================
//
// 子命令:
//
//	conclave run       # 运行一次协作（演示客户端）
//	conclave estimate  # 预估一次协作的成本，不调用任何模型
//	conclave modes     # 列出全部协作模式
//	conclave version   # 显示版本信息
//
// =============================================================================
package main
