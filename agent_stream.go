package borgo

import (
	"context"
	"fmt"

	"github.com/borgo-ai/borgo/src/models"
)

// RunStream projects the Run state machine onto a channel of StepEvents for
// incremental display. Parsing and termination semantics are identical to
// Run; the channel is closed when the run ends. Cancelling ctx releases the
// producing goroutine even when the consumer stops draining.
func (a *Agent) RunStream(ctx context.Context, query string, history []models.Message) <-chan StepEvent {
	events := make(chan StepEvent, 8)

	go func() {
		defer close(events)

		emit := func(ev StepEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		messages := a.seedMessages(query, history)

		for iteration := 1; iteration <= a.maxIterations; iteration++ {
			if ctx.Err() != nil {
				return
			}
			if !emit(StepEvent{Type: EventIteration, Iteration: iteration}) {
				return
			}

			response, err := a.model.Chat(ctx, messages)
			if err != nil {
				emit(StepEvent{
					Type:      EventError,
					Iteration: iteration,
					Err:       fmt.Errorf("model backend failed: %w", err),
				})
				return
			}

			parsed := ParseResponse(response)
			if parsed.Thought != "" {
				if !emit(StepEvent{Type: EventThought, Iteration: iteration, Thought: parsed.Thought}) {
					return
				}
			}

			if parsed.HasFinal {
				emit(StepEvent{Type: EventAnswer, Iteration: iteration, Answer: parsed.FinalAnswer})
				return
			}

			if parsed.Action != "" {
				call := a.catalog.Execute(ctx, parsed.Action, parsed.Args)
				if !emit(StepEvent{Type: EventAction, Iteration: iteration, Call: &call}) {
					return
				}

				observation := observationText(call)
				if !call.Success {
					observation = "Error: " + observation
				}
				if !emit(StepEvent{Type: EventObservation, Iteration: iteration, Observation: observation}) {
					return
				}

				messages = append(messages,
					models.Message{Role: models.RoleAssistant, Content: response},
					models.Message{Role: models.RoleUser, Content: "OBSERVATION: " + observationText(call)},
				)
			}
		}

		emit(StepEvent{Type: EventMaxIterations, Iteration: a.maxIterations})
	}()

	return events
}
