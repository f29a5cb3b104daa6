// Package tools implements the standard tool set exposed to the reasoning
// loop and the inline interceptor.
package tools

import (
	borgo "github.com/borgo-ai/borgo"
	"github.com/borgo-ai/borgo/src/models"
	"github.com/borgo-ai/borgo/src/rag"
	"github.com/borgo-ai/borgo/src/sandbox"
	"github.com/borgo-ai/borgo/src/memory/session"
)

// Config carries the collaborators the tool set is built from. Tools whose
// collaborator is nil stay registered and report a configuration error when
// invoked.
type Config struct {
	Model     models.Agent
	Vision    models.VisionAgent
	Searcher  Searcher
	Memory    *session.SessionMemory
	KB        *rag.KnowledgeBase
	Executor  *sandbox.Executor
	Approver  borgo.Approver
	SessionID string
}

// All returns the full tool set in registration order.
func All(cfg Config) []borgo.Tool {
	if cfg.Executor == nil {
		cfg.Executor = sandbox.NewExecutor()
	}
	web := NewWebClient()

	return []borgo.Tool{
		&SearchTool{Searcher: cfg.Searcher},
		&ReadURLTool{Client: web},
		&RememberTool{Memory: cfg.Memory, SessionID: cfg.SessionID},
		&RecallTool{Memory: cfg.Memory},
		&CalculateTool{},
		&GetTimeTool{},
		&AddKnowledgeTool{KB: cfg.KB},
		&QueryKnowledgeTool{KB: cfg.KB},
		&RunCodeTool{Executor: cfg.Executor},
		&RunShellTool{Executor: cfg.Executor, Approver: cfg.Approver},
		&GetSystemInfoTool{},
		&DescribeImageTool{Vision: cfg.Vision},
		&SummarizeTool{Model: cfg.Model},
		&LoadFileTool{},
	}
}
