// =============================================================================
// 🧪 Testutil - 测试工具包
// =============================================================================
//
// testutil 提供测试辅助函数与模拟实现：
//
//   - helpers.go: 上下文、日志与断言辅助
//   - mocks/: llm.Client 的脚本化模拟实现
//
// 使用方法:
//
//	ctx := testutil.TestContext(t)
//	client := mocks.NewMockClient("claude").WithChunks("Hello", " world")
//
// =============================================================================
package testutil
