// Package crew assembles the mutual fund advisor agents and runs them as
// a sequential task pipeline over Gemini with function calling.
package crew

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"mfadvisor-backend/internal/models"
	"mfadvisor-backend/internal/tools"
)

const (
	// maxToolIterations bounds the function-call loop per task so a
	// model stuck re-requesting tools cannot spin forever.
	maxToolIterations = 8

	rateSlotTimeout = 5 * time.Minute

	// UpdatesChannel carries run progress events to the WebSocket hub.
	UpdatesChannel = "run_updates"

	// RunLogQueue feeds completed run records to the persistence workers.
	RunLogQueue = "queue:run-log"
)

// agentToolNames mirrors the crew assembly: which tools each agent may
// call. The advisor reasons over the researchers' output and gets none.
var agentToolNames = map[string][]string{
	"mf_data_researcher": {
		"get_scheme_details",
		"get_historical_nav",
		"get_large_cap_funds",
		"get_mid_cap_funds",
		"get_small_cap_funds",
	},
	"returns_calculator": {
		"calculate_sip_returns",
		"calculate_lumpsum_returns",
		"calculate_capital_gains_tax",
	},
	"investment_advisor": nil,
}

// taskOrder fixes the sequential pipeline.
var taskOrder = []string{
	"collect_fund_data",
	"calculate_sip_returns",
	"calculate_lumpsum_returns",
	"provide_investment_advice",
}

type agent struct {
	name  string
	model *genai.GenerativeModel
}

type task struct {
	name   string
	config TaskConfig
	agent  *agent
}

// Service owns the Gemini client, the assembled agents and tasks, and
// the Redis plumbing for progress events and run logging.
type Service struct {
	client   *genai.Client
	registry *tools.Registry
	tasks    []*task
	pubsub   *redis.Client
	queue    *redis.Client
	rateChan chan struct{} // concurrent-kickoff slots
}

func NewService(
	ctx context.Context,
	apiKey string,
	modelName string,
	concurrentRuns int,
	configDir string,
	registry *tools.Registry,
	pubsubClient *redis.Client,
	queueClient *redis.Client,
) (*Service, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	agentConfigs, err := LoadAgentConfigs(configDir)
	if err != nil {
		client.Close()
		return nil, err
	}
	taskConfigs, err := LoadTaskConfigs(configDir)
	if err != nil {
		client.Close()
		return nil, err
	}

	agents := make(map[string]*agent, len(agentToolNames))
	for name, toolNames := range agentToolNames {
		cfg, ok := agentConfigs[name]
		if !ok {
			client.Close()
			return nil, fmt.Errorf("agents config is missing agent %q", name)
		}

		model := client.GenerativeModel(modelName)
		model.SetTemperature(0.3)
		model.SetTopP(0.95)
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction(cfg))},
		}

		if len(toolNames) > 0 {
			decls, err := registry.Declarations(toolNames)
			if err != nil {
				client.Close()
				return nil, fmt.Errorf("agent %q: %w", name, err)
			}
			model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		}

		agents[name] = &agent{name: name, model: model}
	}

	tasksList := make([]*task, 0, len(taskOrder))
	for _, name := range taskOrder {
		cfg, ok := taskConfigs[name]
		if !ok {
			client.Close()
			return nil, fmt.Errorf("tasks config is missing task %q", name)
		}
		ag, ok := agents[cfg.Agent]
		if !ok {
			client.Close()
			return nil, fmt.Errorf("task %q references unknown agent %q", name, cfg.Agent)
		}
		tasksList = append(tasksList, &task{name: name, config: cfg, agent: ag})
	}

	rateChan := make(chan struct{}, concurrentRuns)
	for i := 0; i < concurrentRuns; i++ {
		rateChan <- struct{}{}
	}

	return &Service{
		client:   client,
		registry: registry,
		tasks:    tasksList,
		pubsub:   pubsubClient,
		queue:    queueClient,
		rateChan: rateChan,
	}, nil
}

func (s *Service) Close() {
	s.client.Close()
}

func systemInstruction(cfg AgentConfig) string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(strings.TrimSpace(cfg.Role))
	b.WriteString(".\n\nYour goal: ")
	b.WriteString(strings.TrimSpace(cfg.Goal))
	if cfg.Backstory != "" {
		b.WriteString("\n\nBackstory: ")
		b.WriteString(strings.TrimSpace(cfg.Backstory))
	}
	return b.String()
}

// acquireRate blocks until a kickoff slot is available.
func (s *Service) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(rateSlotTimeout):
		return fmt.Errorf("timeout waiting for a crew run slot")
	}
}

func (s *Service) releaseRate() {
	s.rateChan <- struct{}{}
}

// Kickoff runs the full task pipeline with the given inputs and returns
// the run record. The reply of the final task is the chat reply. The
// record is also queued for persistence, success or failure.
func (s *Service) Kickoff(ctx context.Context, inputs map[string]any) (*models.Run, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	runID := uuid.New()
	startedAt := time.Now().UTC()
	log.Printf("Crew run %s started", runID)

	inputsJSON, _ := json.Marshal(inputs)
	run := &models.Run{
		ID:         runID,
		UserPrompt: asString(inputs["user_prompt"]),
		InputsJSON: inputsJSON,
		StartedAt:  startedAt,
	}

	var contextOutputs []string
	var reply string

	for i, tk := range s.tasks {
		s.publishUpdate(ctx, models.RunUpdate{
			RunID: runID, Step: i + 1, Total: len(s.tasks),
			TaskName: tk.name, Agent: tk.agent.name, Status: "started",
		})

		prompt := buildTaskPrompt(tk.config, inputs, contextOutputs)
		output, err := s.runTask(ctx, tk, prompt)
		if err != nil {
			s.publishUpdate(ctx, models.RunUpdate{
				RunID: runID, Step: i + 1, Total: len(s.tasks),
				TaskName: tk.name, Agent: tk.agent.name, Status: "failed",
			})
			s.finishRun(ctx, run, "", fmt.Errorf("task %s: %w", tk.name, err))
			return run, fmt.Errorf("task %s: %w", tk.name, err)
		}

		contextOutputs = append(contextOutputs, fmt.Sprintf("[%s]\n%s", tk.name, output))
		reply = output

		s.publishUpdate(ctx, models.RunUpdate{
			RunID: runID, Step: i + 1, Total: len(s.tasks),
			TaskName: tk.name, Agent: tk.agent.name, Status: "completed",
		})
	}

	s.finishRun(ctx, run, reply, nil)
	log.Printf("Crew run %s completed in %dms", runID, run.DurationMs)
	return run, nil
}

// runTask drives one agent through one task, resolving function calls
// until the model produces text or the iteration budget runs out.
func (s *Service) runTask(ctx context.Context, tk *task, prompt string) (string, error) {
	session := tk.agent.model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i := 0; i < maxToolIterations; i++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			log.Printf("Agent %s calling tool %s", tk.agent.name, call.Name)
			result := s.registry.Execute(ctx, call.Name, call.Args)
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}

		resp, err = session.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("Gemini API error: %w", err)
		}
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("model returned no text output")
	}
	return text, nil
}

func buildTaskPrompt(cfg TaskConfig, inputs map[string]any, contextOutputs []string) string {
	var b strings.Builder
	b.WriteString(Interpolate(cfg.Description, inputs))

	if cfg.ExpectedOutput != "" {
		b.WriteString("\n\nExpected output:\n")
		b.WriteString(Interpolate(cfg.ExpectedOutput, inputs))
	}

	if len(contextOutputs) > 0 {
		b.WriteString("\n\nContext from earlier tasks:\n\n")
		b.WriteString(strings.Join(contextOutputs, "\n\n"))
	}

	return b.String()
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if call, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, call)
			}
		}
	}
	return calls
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// publishUpdate pushes a progress event for the WebSocket hub.
func (s *Service) publishUpdate(ctx context.Context, update models.RunUpdate) {
	if s.pubsub == nil {
		return
	}
	data, _ := json.Marshal(models.WSMessage{Type: "run_update", Payload: update})
	s.pubsub.Publish(ctx, UpdatesChannel, string(data))
}

// finishRun stamps the record and queues it for the persistence workers.
func (s *Service) finishRun(ctx context.Context, run *models.Run, reply string, runErr error) {
	run.FinishedAt = time.Now().UTC()
	run.DurationMs = run.FinishedAt.Sub(run.StartedAt).Milliseconds()

	if runErr != nil {
		run.Status = "failed"
		msg := runErr.Error()
		run.ErrorMessage = &msg
	} else {
		run.Status = "completed"
		run.Reply = &reply
	}

	if s.queue == nil {
		return
	}
	data, err := json.Marshal(run)
	if err != nil {
		log.Printf("Failed to marshal run %s for logging: %v", run.ID, err)
		return
	}
	if err := s.queue.LPush(ctx, RunLogQueue, string(data)).Err(); err != nil {
		log.Printf("Failed to queue run %s for logging: %v", run.ID, err)
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
