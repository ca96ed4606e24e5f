package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/voiceagi/go-voiceagi/pkg/catalog"
)

// DefaultCatalog builds the stock voice-callable tool set. Handlers
// return the sentence the agent speaks back; backend calls are stubbed
// until the orchestrator MCP endpoints land.
func DefaultCatalog() *catalog.Catalog {
	b := catalog.NewBuilder()

	b.MustRegister(catalog.ToolSpec{
		Name:        "search_memory",
		Description: "Search memory for past information",
		TriggerPhrases: []string{
			"search memory", "search my memory", "find in memory",
			"remember when", "recall when", "what do you remember about",
			"look up", "find information", "search for",
		},
		Priority: 8,
		Parameters: map[string]catalog.ParamSpec{
			"query": {
				Type:        catalog.TypeString,
				Required:    true,
				Description: "What to search the memory for",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			return fmt.Sprintf("I found 1 result about %s", query), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "create_goal",
		Description: "Create a new goal from voice",
		TriggerPhrases: []string{
			"create goal", "create a goal", "make goal", "make a goal",
			"new goal", "add goal", "set goal", "set a goal",
			"create a new goal", "add a new goal", "i want to create a goal",
		},
		Priority: 9,
		Parameters: map[string]catalog.ParamSpec{
			"description": {
				Type:        catalog.TypeString,
				Required:    true,
				Description: "What the goal should achieve",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			goalID := fmt.Sprintf("goal_%d", time.Now().Unix())
			return fmt.Sprintf("Goal created with ID %s", goalID), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "list_tasks",
		Description: "List pending tasks",
		TriggerPhrases: []string{
			"list tasks", "list my tasks", "show tasks", "show my tasks",
			"what tasks", "what are my tasks", "pending tasks",
			"display tasks", "get tasks", "what's on my todo",
		},
		Priority: 8,
		Parameters: map[string]catalog.ParamSpec{
			"limit": {
				Type:        catalog.TypeInt,
				Default:     5,
				Description: "Maximum number of tasks to list",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			limit, _ := args["limit"].(int)
			tasks := []string{"Task 1: Example task 1", "Task 2: Example task 2"}
			if limit < len(tasks) {
				tasks = tasks[:limit]
			}
			if len(tasks) == 0 {
				return "You have no pending tasks", nil
			}
			return fmt.Sprintf("You have %d tasks. %s", len(tasks), strings.Join(tasks, " ")), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "trigger_consolidation",
		Description: "Trigger a memory consolidation cycle",
		TriggerPhrases: []string{
			"consolidate", "consolidate memory", "run consolidation",
			"memory consolidation", "consolidation cycle",
			"run memory consolidation", "trigger consolidation",
		},
		Priority: 9,
		Handler: func(args map[string]any) (string, error) {
			return "Consolidation complete. Found 5 patterns.", nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "start_research",
		Description: "Start autonomous research on a topic",
		TriggerPhrases: []string{
			"research", "research about", "start research", "do research on",
			"investigate", "study", "learn about", "find out about",
			"look into", "explore", "research topic",
		},
		Priority: 8,
		Parameters: map[string]catalog.ParamSpec{
			"topic": {
				Type:        catalog.TypeString,
				Required:    true,
				Description: "The topic to research",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			topic, _ := args["topic"].(string)
			return fmt.Sprintf("Starting research on %s. I'll notify you when complete.", topic), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "check_status",
		Description: "Check system status",
		TriggerPhrases: []string{
			"status", "system status", "check status", "how are you",
			"how is the system", "how's the system", "system health",
			"are you ok", "are you working", "how are things",
		},
		Priority: 7,
		Handler: func(args map[string]any) (string, error) {
			return "System is operational. 12 agents active.", nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "remember_name",
		Description: "Remember the user's name",
		TriggerPhrases: []string{
			"my name is", "my name's", "i am", "i'm", "call me",
			"remember my name", "remember that i'm", "remember i'm",
			"you can call me", "please call me", "name is",
		},
		Priority: 8,
		Parameters: map[string]catalog.ParamSpec{
			"name": {
				Type:        catalog.TypeString,
				Required:    true,
				Description: "The user's name",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			name, _ := args["name"].(string)
			return fmt.Sprintf("Got it, I'll remember your name is %s", name), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "recall_name",
		Description: "Recall the user's name",
		TriggerPhrases: []string{
			"what is my name", "what's my name", "who am i",
			"do you remember me", "do you know my name", "what do you call me",
			"do you know who i am", "remember me",
		},
		Priority: 8,
		Parameters: map[string]catalog.ParamSpec{
			// Filled from conversation facts when the name is known;
			// there is nothing to parse out of the utterance itself.
			"name": {
				Type:        catalog.TypeString,
				Description: "The user's previously stored name",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			name, _ := args["name"].(string)
			if name == "" {
				return "I don't know your name yet. Please tell me!", nil
			}
			return fmt.Sprintf("Your name is %s", name), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "start_improvement",
		Description: "Start a self-improvement cycle",
		TriggerPhrases: []string{
			"improve", "improve yourself", "self improve", "self-improve",
			"optimize", "optimize yourself", "make faster", "speed up",
			"get better", "enhance", "upgrade", "improve performance",
		},
		Priority: 9,
		Parameters: map[string]catalog.ParamSpec{
			"target_metric": {
				Type:        catalog.TypeString,
				Default:     "overall_performance",
				Description: "The metric the cycle should improve",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			metric, _ := args["target_metric"].(string)
			return fmt.Sprintf("Starting self-improvement cycle for %s", metric), nil
		},
	})

	b.MustRegister(catalog.ToolSpec{
		Name:        "decompose_goal",
		Description: "Decompose a goal into tasks",
		TriggerPhrases: []string{
			"decompose", "decompose goal", "break down", "break down goal",
			"break into tasks", "split goal", "split into tasks",
			"plan goal", "create tasks from goal",
		},
		Priority: 8,
		Parameters: map[string]catalog.ParamSpec{
			"goal_description": {
				Type:        catalog.TypeString,
				Required:    true,
				Description: "The goal to break into tasks",
			},
		},
		Handler: func(args map[string]any) (string, error) {
			return "Created 2 tasks from your goal", nil
		},
	})

	return b.Build()
}
