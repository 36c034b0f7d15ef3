package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"teamtasks/internal/config"
	"teamtasks/internal/db"
	"teamtasks/internal/domain"
	"teamtasks/internal/engine"
	"teamtasks/internal/events"
	"teamtasks/internal/migrate"
	"teamtasks/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tt",
	Short: "team-tasks CLI",
	Long: `team-tasks coordinates multi-step work across cooperating agents.
Modes:
  linear   sequential stages with auto-advancement on completion
  dag      dependency graph; tasks dispatch when their deps are done
  debate   N agents answer one question, cross-review, then synthesize

Each project is one JSON document under the data directory. The engine
only tracks readiness and state; invoking agents is up to you.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("TEAMTASKS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("data-dir", "", "data directory (default ~/.team-tasks)")
	rootCmd.PersistentFlags().String("config", "teamtasks.yml", "config file path")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(addDebaterCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(nextCmd())
	rootCmd.AddCommand(readyCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(resultCmd())
	rootCmd.AddCommand(roundCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(eventsCmd())
}

func initCmd() *cobra.Command {
	var mode, goal, pipeline, workspace string
	var force bool
	cmd := &cobra.Command{
		Use:   "init <project>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, st, err := openStore()
			if err != nil {
				return err
			}
			if st.Exists(name) && !force {
				return fmt.Errorf("project %q already exists; use --force to overwrite", name)
			}
			eng := engine.New()
			p, err := eng.InitProject(engine.InitOptions{
				Name:      name,
				Mode:      domain.Mode(mode),
				Goal:      goal,
				Workspace: workspace,
				Pipeline:  splitList(pipeline),
			})
			if err != nil {
				return err
			}
			if err := st.Save(name, p); err != nil {
				return err
			}
			journal(cmd.Context(), cfg, "project.init", name, "", events.EventPayload{"mode": mode})
			if viper.GetBool("json") {
				return printJSON(p)
			}
			fmt.Printf("project %q created (mode: %s)\n", name, p.Mode)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "dag", "execution mode (linear, dag, debate)")
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "project goal or debate question")
	cmd.Flags().StringVarP(&pipeline, "pipeline", "p", "", "linear stages, comma separated")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing project")
	return cmd
}

func addCmd() *cobra.Command {
	var agent, desc, deps string
	cmd := &cobra.Command{
		Use:   "add <project> <task-id>",
		Short: "Add a task (dag mode)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				task := domain.NewTask(args[1], agent, desc, splitList(deps))
				if err := eng.AddTask(p, task); err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(task); err != nil {
						return nil, err
					}
				} else if len(task.Dependencies) > 0 {
					fmt.Printf("task %q added (deps: %s)\n", task.ID, strings.Join(task.Dependencies, ", "))
				} else {
					fmt.Printf("task %q added\n", task.ID)
				}
				return &journalEntry{Type: "task.added", Entity: task.ID, Payload: events.EventPayload{"dependencies": task.Dependencies}}, nil
			})
		},
	}
	cmd.Flags().StringVarP(&agent, "agent", "a", "", "agent responsible (defaults to task id)")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "task description")
	cmd.Flags().StringVar(&deps, "deps", "", "dependency task ids, comma separated")
	return cmd
}

func addDebaterCmd() *cobra.Command {
	var agent, perspective string
	cmd := &cobra.Command{
		Use:   "add-debater <project> <debater-id>",
		Short: "Register a debate participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				d, err := eng.AddDebater(p, args[1], agent, perspective)
				if err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(d); err != nil {
						return nil, err
					}
				} else if d.Perspective != "" {
					fmt.Printf("debater %q (%s) joined\n", d.ID, d.Perspective)
				} else {
					fmt.Printf("debater %q joined\n", d.ID)
				}
				return &journalEntry{Type: "debater.added", Entity: d.ID, Payload: events.EventPayload{"perspective": d.Perspective}}, nil
			})
		},
	}
	cmd.Flags().StringVarP(&agent, "agent", "a", "", "agent name (defaults to debater id)")
	cmd.Flags().StringVarP(&perspective, "perspective", "p", "", "perspective the debater argues from")
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project>",
		Short: "Show project status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(p)
			}
			printStatus(&p)
			return nil
		},
	}
	return cmd
}

func nextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next <project>",
		Short: "Show the next pending stage (linear mode)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			stage, err := engine.New().NextStage(&p)
			if err != nil {
				return err
			}
			if stage == nil {
				fmt.Println("all stages complete")
				return nil
			}
			if viper.GetBool("json") {
				return printJSON(stage)
			}
			fmt.Printf("next stage: %s (agent: %s)\n", stage.ID, stage.Agent)
			if stage.Description != "" {
				fmt.Printf("  %s\n", stage.Description)
			}
			return nil
		},
	}
	return cmd
}

func readyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ready <project>",
		Short: "List tasks ready for dispatch (dag mode)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			if p.Mode != domain.ModeDAG {
				return fmt.Errorf("ready is for dag mode; project %q is %s", p.Name, p.Mode)
			}
			ready := engine.ReadyTasks(p.DAG.Tasks)
			if viper.GetBool("json") {
				return printJSON(ready)
			}
			if len(ready) == 0 {
				done := 0
				for _, t := range p.DAG.Tasks {
					if t.Status == domain.StatusDone {
						done++
					}
				}
				if done == len(p.DAG.Tasks) && done > 0 {
					fmt.Println("all tasks complete")
				} else {
					fmt.Println("no dispatchable tasks (waiting on dependencies)")
				}
				return nil
			}
			fmt.Printf("dispatchable tasks (%d):\n", len(ready))
			for _, t := range ready {
				fmt.Printf("  %s (agent: %s)\n", t.ID, t.Agent)
				if t.Description != "" {
					fmt.Printf("    %s\n", t.Description)
				}
			}
			return nil
		},
	}
	return cmd
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <project> <id> <status>",
		Short: "Update a stage/task status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				change, err := eng.SetStatus(p, args[1], domain.Status(args[2]))
				if err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(change); err != nil {
						return nil, err
					}
				} else {
					fmt.Printf("%s -> %s\n", change.ID, change.Status)
					if change.AdvancedTo != "" {
						fmt.Printf("auto-advanced to: %s\n", change.AdvancedTo)
					}
					if len(change.Unlocked) > 0 {
						fmt.Printf("ready tasks: %s\n", strings.Join(change.Unlocked, ", "))
					}
				}
				return &journalEntry{Type: "status.updated", Entity: change.ID, Payload: events.EventPayload{
					"status":      change.Status,
					"advanced_to": change.AdvancedTo,
					"unlocked":    change.Unlocked,
				}}, nil
			})
		},
	}
	return cmd
}

func resultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result <project> <id> <text>",
		Short: "Record a stage/task result",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				if err := eng.RecordResult(p, args[1], args[2]); err != nil {
					return nil, err
				}
				fmt.Printf("result recorded for %q (%d chars)\n", args[1], len(args[2]))
				return &journalEntry{Type: "result.recorded", Entity: args[1], Payload: events.EventPayload{"chars": len(args[2])}}, nil
			})
		},
	}
	return cmd
}

func roundCmd() *cobra.Command {
	round := &cobra.Command{
		Use:   "round",
		Short: "Manage debate rounds",
		Long:  "Rounds progress initial -> cross-review -> synthesis, forward only. Only the most recent round accepts responses.",
	}
	round.AddCommand(roundStartCmd())
	round.AddCommand(roundSubmitCmd())
	round.AddCommand(roundCrossReviewCmd())
	round.AddCommand(roundSynthesizeCmd())
	round.AddCommand(roundStatusCmd())
	return round
}

func roundStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <project>",
		Short: "Start a new round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				n, err := eng.StartRound(p)
				if err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(map[string]any{"round_number": n}); err != nil {
						return nil, err
					}
				} else {
					fmt.Printf("round %d started\n", n)
					fmt.Printf("  question: %s\n", p.Debate.Question)
					fmt.Printf("  collect responses from %d debater(s)\n", len(p.Debate.Debaters))
				}
				return &journalEntry{Type: "round.started", Payload: events.EventPayload{"round": n}}, nil
			})
		},
	}
	return cmd
}

func roundSubmitCmd() *cobra.Command {
	var debaterID, text string
	cmd := &cobra.Command{
		Use:   "submit <project>",
		Short: "Submit a response to the current round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				resp, err := eng.SubmitResponse(p, debaterID, text)
				if err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(resp); err != nil {
						return nil, err
					}
				} else {
					round := p.Debate.Rounds[len(p.Debate.Rounds)-1]
					fmt.Printf("response from %q recorded (round %d, %s)\n", resp.DebaterID, round.Number, resp.Phase)
				}
				return &journalEntry{Type: "response.submitted", Entity: resp.ID, Payload: events.EventPayload{
					"debater": resp.DebaterID,
					"phase":   resp.Phase,
				}}, nil
			})
		},
	}
	cmd.Flags().StringVarP(&debaterID, "debater", "d", "", "debater id")
	cmd.Flags().StringVarP(&text, "text", "t", "", "response content")
	_ = cmd.MarkFlagRequired("debater")
	return cmd
}

func roundCrossReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cross-review <project>",
		Short: "Advance the current round to cross-review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				prompts, err := eng.AdvanceToCrossReview(p)
				if err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(prompts); err != nil {
						return nil, err
					}
				} else {
					fmt.Println("cross-review phase")
					for _, prompt := range prompts {
						fmt.Printf("\nreview prompt for %s:\n", prompt.DebaterID)
						for _, entry := range prompt.Entries {
							fmt.Printf("  [%s]: %s\n", entry.DebaterID, entry.Preview)
						}
					}
				}
				return &journalEntry{Type: "phase.advanced", Payload: events.EventPayload{"phase": domain.PhaseCrossReview}}, nil
			})
		},
	}
	return cmd
}

func roundSynthesizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synthesize <project>",
		Short: "Advance the current round to synthesis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				sum, err := eng.AdvanceToSynthesis(p)
				if err != nil {
					return nil, err
				}
				if viper.GetBool("json") {
					if err := printJSON(sum); err != nil {
						return nil, err
					}
				} else {
					fmt.Println("synthesis phase")
					fmt.Printf("  initial responses: %d\n", sum.InitialCount)
					fmt.Printf("  cross-reviews:     %d\n", sum.ReviewCount)
				}
				return &journalEntry{Type: "phase.advanced", Payload: events.EventPayload{"phase": domain.PhaseSynthesis}}, nil
			})
		},
	}
	return cmd
}

func roundStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <project>",
		Short: "Show the current round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			sum, err := engine.New().RoundStatus(&p)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(sum)
			}
			fmt.Printf("round %d, phase: %s\n", sum.RoundNumber, sum.Phase)
			for _, s := range sum.Standings {
				mark := "waiting"
				if s.Responded {
					mark = "responded"
				}
				fmt.Printf("  %-20s %s\n", s.DebaterID, mark)
			}
			return nil
		},
	}
	return cmd
}

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <project>",
		Short: "Visualize dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			switch p.Mode {
			case domain.ModeLinear:
				ids := make([]string, 0, len(p.Linear.Stages))
				for _, s := range p.Linear.Stages {
					ids = append(ids, fmt.Sprintf("%s[%s]", s.ID, s.Status))
				}
				fmt.Println("  " + strings.Join(ids, " -> "))
			case domain.ModeDAG:
				if len(p.DAG.Tasks) == 0 {
					fmt.Println("(empty)")
					return nil
				}
				for _, t := range p.DAG.Tasks {
					if len(t.Dependencies) == 0 {
						fmt.Printf("  (root) --> %s [%s]\n", t.ID, t.Status)
						continue
					}
					for _, d := range t.Dependencies {
						fmt.Printf("  %s --> %s [%s]\n", d, t.ID, t.Status)
					}
				}
			case domain.ModeDebate:
				fmt.Printf("  question: %s\n", p.Debate.Question)
				for _, d := range p.Debate.Debaters {
					fmt.Printf("    %s\n", d.ID)
				}
				fmt.Println("  -> synthesis")
			}
			return nil
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <project>",
		Short: "Show execution history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			items := engine.Items(&p)
			var rows []engine.Item
			for _, it := range items {
				if it.Result != "" || it.Status != domain.StatusPending {
					rows = append(rows, it)
				}
			}
			if viper.GetBool("json") {
				return printJSON(rows)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Status", "Assigned", "Completed", "Result"})
			for _, it := range rows {
				tw.AppendRow(table.Row{it.ID, it.Status, it.AssignedAt, it.CompletedAt, truncate(it.Result, 300)})
			}
			tw.Render()
			return nil
		},
	}
	return cmd
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <project>",
		Short: "Reset execution state (structure is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), args[0], func(eng engine.Engine, p *domain.Project) (*journalEntry, error) {
				eng.Reset(p)
				fmt.Printf("project %q reset\n", p.Name)
				return &journalEntry{Type: "project.reset"}, nil
			})
		},
	}
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			names, err := st.List()
			if err != nil {
				return err
			}
			if len(names) == 0 && !viper.GetBool("json") {
				fmt.Println("no projects; create one with 'tt init'")
				return nil
			}
			type row struct {
				Name string      `json:"name"`
				Mode domain.Mode `json:"mode"`
				Goal string      `json:"goal,omitempty"`
			}
			var rows []row
			for _, name := range names {
				p, err := st.Load(name)
				if err != nil {
					return err
				}
				rows = append(rows, row{Name: name, Mode: p.Mode, Goal: p.Goal})
			}
			if viper.GetBool("json") {
				return printJSON(rows)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Project", "Mode", "Goal"})
			for _, r := range rows {
				tw.AppendRow(table.Row{r.Name, r.Mode, truncate(r.Goal, 60)})
			}
			tw.Render()
			return nil
		},
	}
	return cmd
}

func exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Dump the full project record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore()
			if err != nil {
				return err
			}
			p, err := st.Load(args[0])
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return printJSON(p)
			case "yaml":
				data, err := yaml.Marshal(p)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	return cmd
}

func eventsCmd() *cobra.Command {
	var n int
	var project, evtType string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the event journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conn, err := db.Open(db.Config{DataDir: cfg.DataDir})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			w := events.Writer{DB: conn}
			evts, err := w.Latest(cmd.Context(), n, project, evtType)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(evts)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"TS", "Type", "Project", "Entity", "Payload"})
			for _, ev := range evts {
				tw.AppendRow(table.Row{ev.TS, ev.Type, ev.Project, ev.Entity, ev.Payload})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&project, "project", "", "project filter")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	return cmd
}

// --- helpers ---

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOptional(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	if dir := viper.GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func openStore() (*config.Config, store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, store.Store{}, err
	}
	return cfg, store.New(cfg.DataDir), nil
}

// journalEntry is the event a mutating command wants recorded once its
// save has gone through.
type journalEntry struct {
	Type    string
	Entity  string
	Payload events.EventPayload
}

// withProject runs a load-mutate-save cycle: the engine mutates the
// record in memory, the record is persisted only if fn succeeds, and
// the returned journal entry is appended after the save.
func withProject(ctx context.Context, name string, fn func(engine.Engine, *domain.Project) (*journalEntry, error)) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	p, err := st.Load(name)
	if err != nil {
		return err
	}
	entry, err := fn(engine.New(), &p)
	if err != nil {
		return err
	}
	if err := st.Save(name, p); err != nil {
		return err
	}
	if entry != nil {
		journal(ctx, cfg, entry.Type, name, entry.Entity, entry.Payload)
	}
	return nil
}

// journal appends one event, best effort. A journal failure never
// fails the command; the project record is the source of truth.
func journal(ctx context.Context, cfg *config.Config, evtType, project, entity string, payload events.EventPayload) {
	if !cfg.Journal.Enabled {
		return
	}
	conn, err := db.Open(db.Config{DataDir: cfg.DataDir})
	if err != nil {
		fmt.Fprintln(os.Stderr, "warn: journal:", err)
		return
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		fmt.Fprintln(os.Stderr, "warn: journal:", err)
		return
	}
	w := events.Writer{DB: conn}
	if err := w.Append(ctx, evtType, project, entity, payload); err != nil {
		fmt.Fprintln(os.Stderr, "warn: journal:", err)
	}
}

func printStatus(p *domain.Project) {
	fmt.Printf("project: %s  mode: %s\n", p.Name, p.Mode)
	if p.Goal != "" {
		fmt.Printf("goal: %s\n", p.Goal)
	}
	if p.Workspace != "" {
		fmt.Printf("workspace: %s\n", p.Workspace)
	}
	switch p.Mode {
	case domain.ModeLinear:
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"#", "Stage", "Status", ""})
		for i, s := range p.Linear.Stages {
			marker := ""
			if i == p.Linear.CurrentStage && s.Status != domain.StatusDone {
				marker = "<- current"
			}
			tw.AppendRow(table.Row{i, s.ID, s.Status, marker})
		}
		tw.Render()
	case domain.ModeDAG:
		ready := map[string]bool{}
		for _, t := range engine.ReadyTasks(p.DAG.Tasks) {
			ready[t.ID] = true
		}
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Task", "Status", "Deps", ""})
		for _, t := range p.DAG.Tasks {
			marker := ""
			if ready[t.ID] {
				marker = "ready"
			}
			tw.AppendRow(table.Row{t.ID, t.Status, strings.Join(t.Dependencies, ", "), marker})
		}
		tw.Render()
	case domain.ModeDebate:
		fmt.Printf("debaters (%d):\n", len(p.Debate.Debaters))
		for _, d := range p.Debate.Debaters {
			if d.Perspective != "" {
				fmt.Printf("  %s (%s)\n", d.ID, d.Perspective)
			} else {
				fmt.Printf("  %s\n", d.ID)
			}
		}
		fmt.Printf("rounds (%d):\n", len(p.Debate.Rounds))
		for _, r := range p.Debate.Rounds {
			fmt.Printf("  round %d: %s (%d responses)\n", r.Number, r.Phase, len(r.Responses))
		}
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
