package borgo

import (
	"context"
	"fmt"
	"strings"

	"github.com/borgo-ai/borgo/src/models"
)

// Options configures a reasoning agent.
type Options struct {
	Model         models.Agent
	Catalog       ToolCatalog
	MaxIterations int
	SystemPrompt  string
}

// Agent drives the Thought/Action/Observation loop: each iteration sends
// the accumulated history to the model, parses the structured reply and
// either executes a tool or returns the final answer.
type Agent struct {
	model         models.Agent
	catalog       ToolCatalog
	maxIterations int
	systemPrompt  string
}

const defaultMaxIterations = 10

// New validates the options and builds an agent.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("tool catalog is required")
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = defaultMaxIterations
	}
	return &Agent{
		model:         opts.Model,
		catalog:       opts.Catalog,
		maxIterations: opts.MaxIterations,
		systemPrompt:  opts.SystemPrompt,
	}, nil
}

// Run executes the loop for one query. history is copied, never mutated;
// the caller decides what to persist from the returned result. The only
// error Run returns is a model backend failure, which is fatal to the run.
func (a *Agent) Run(ctx context.Context, query string, history []models.Message) (AgentResult, error) {
	messages := a.seedMessages(query, history)

	var steps []AgentStep
	var toolsUsed []string

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		response, err := a.model.Chat(ctx, messages)
		if err != nil {
			return AgentResult{Steps: steps, ToolsUsed: uniqueTools(toolsUsed), Iterations: iteration - 1},
				fmt.Errorf("model backend failed: %w", err)
		}

		parsed := ParseResponse(response)
		step := AgentStep{Iteration: iteration, Thought: parsed.Thought}

		if parsed.HasFinal {
			steps = append(steps, step)
			return AgentResult{
				Answer:     parsed.FinalAnswer,
				Steps:      steps,
				ToolsUsed:  uniqueTools(toolsUsed),
				Iterations: iteration,
				Completed:  true,
			}, nil
		}

		if parsed.Action != "" {
			call := a.catalog.Execute(ctx, parsed.Action, parsed.Args)
			step.Action = &call
			step.Observation = observationText(call)
			toolsUsed = append(toolsUsed, parsed.Action)

			messages = append(messages,
				models.Message{Role: models.RoleAssistant, Content: response},
				models.Message{Role: models.RoleUser, Content: "OBSERVATION: " + step.Observation},
			)
		}

		steps = append(steps, step)
	}

	return AgentResult{
		Answer:     synthesizeAnswer(steps),
		Steps:      steps,
		ToolsUsed:  uniqueTools(toolsUsed),
		Iterations: a.maxIterations,
	}, nil
}

func (a *Agent) seedMessages(query string, history []models.Message) []models.Message {
	messages := make([]models.Message, 0, len(history)+2)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: a.buildSystemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, models.Message{Role: models.RoleUser, Content: query})
	return messages
}

func (a *Agent) buildSystemPrompt() string {
	var b strings.Builder
	if a.systemPrompt != "" {
		b.WriteString(a.systemPrompt)
	} else {
		b.WriteString("You are a capable assistant that solves tasks step by step using tools.")
	}

	b.WriteString("\n\n## Available Tools\n")
	for _, spec := range a.catalog.Specs() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
	}

	b.WriteString(`
For each step, respond in this EXACT format:

THOUGHT: [Your reasoning - be specific about WHAT you're doing and WHY]
ACTION: [tool_name]
ARGS: {"arg1": "value1", "arg2": "value2"}

OR if you have enough information to answer:

THOUGHT: [Your final reasoning]
FINAL_ANSWER: [Your detailed and helpful answer to the user]

## Guidelines
1. Use multiple tools to gather complete information before answering.
2. After a tool observation, continue until you have a complete answer.
3. If a tool fails, try a different approach.`)
	return b.String()
}

// observationText renders a tool call as the observation fed back to the
// model; failures become text the model can react to, never run aborts.
func observationText(call ToolCall) string {
	if call.Success {
		return call.Result
	}
	return call.Error
}

// synthesizeAnswer builds the degraded terminal answer when the iteration
// cap is hit: all non-empty thoughts joined in order.
func synthesizeAnswer(steps []AgentStep) string {
	var thoughts []string
	for _, s := range steps {
		if s.Thought != "" {
			thoughts = append(thoughts, s.Thought)
		}
	}
	return "I wasn't able to complete this task within the allowed steps. Here's what I found:\n" +
		strings.Join(thoughts, "\n")
}

func uniqueTools(used []string) []string {
	seen := make(map[string]bool, len(used))
	var out []string
	for _, name := range used {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
