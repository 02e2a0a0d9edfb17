package eino

import "context"

type workflowKey struct{}
type providerKey struct{}

// WithWorkflowProvider 在 Context 中标记当前 LLM 调用所属的工作流与提供商
// 供全局 callbacks 打指标与追踪属性
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	ctx = context.WithValue(ctx, workflowKey{}, workflow)
	return context.WithValue(ctx, providerKey{}, provider)
}

// WorkflowFromContext 获取当前工作流名称
func WorkflowFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(workflowKey{}).(string); ok {
		return v
	}
	return "unknown"
}

// ProviderFromContext 获取当前提供商名称
func ProviderFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(providerKey{}).(string); ok {
		return v
	}
	return "unknown"
}
