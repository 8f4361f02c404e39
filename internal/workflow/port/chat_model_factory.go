package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 定义工作流层对 LLM ChatModel 的最小依赖（port）。
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)

	// Available 报告文本生成能力是否已配置（凭证存在）。
	// 编排器在构造时查询一次，之后不再反复探测。
	Available() bool
}
