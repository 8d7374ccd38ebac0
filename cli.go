package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"gamemode/internal/gaming"
	"gamemode/internal/gaming/profiles"
	"gamemode/internal/memory"
	"gamemode/internal/system"
)

var (
	green  = color.New(color.FgHiGreen, color.Bold)
	cyan   = color.New(color.FgHiCyan)
	yellow = color.New(color.FgHiYellow)
	red    = color.New(color.FgHiRed)
)

func runCLI(ctx context.Context, app *App) {
	green.Println("\n  GAME MODE")
	cyan.Printf("  Windows session optimizer v%s\n", Version)
	fmt.Println("  ─────────────────────────────────────────────")
	if !system.IsAdmin() {
		red.Println("  ⚠ Not running as administrator. Most tweaks will fail.")
	}
	fmt.Println()

	app.OnActive(func(active bool) {
		if active {
			green.Println("\n  ▶ Game mode ACTIVE")
		} else {
			yellow.Println("\n  ■ Game mode off")
		}
	})

	for ctx.Err() == nil {
		toggle := "🎮 Enable Game Mode"
		if app.Active() {
			toggle = "🛑 Disable Game Mode"
		}
		prompt := promptui.Select{
			Label: "What would you like to do?",
			Items: []string{
				toggle,
				"⚙️  Session Options",
				"📋 Presets",
				"🌐 Bufferbloat Fix",
				"🖥️  Multiplane Overlay",
				"🚀 Run on Startup",
				"💾 Memory",
				"📊 Statistics",
				"❌ Exit",
			},
			Size: 9,
		}

		i, _, err := prompt.Run()
		if err != nil {
			return
		}
		fmt.Println()

		switch i {
		case 0:
			cliToggle(app)
		case 1:
			cliOptions(app)
		case 2:
			cliPresets(app)
		case 3:
			cliBufferbloat(app)
		case 4:
			cliMPO(app)
		case 5:
			cliStartup(app)
		case 6:
			cliMemory(app)
		case 7:
			cliStats(app)
		case 8:
			return
		}
		fmt.Println()
	}
}

func cliToggle(app *App) {
	if app.Active() {
		yellow.Println("  Restoring system state...")
	} else {
		yellow.Println("  Applying session tweaks...")
	}
	rep, err := app.Toggle()
	if errors.Is(err, gaming.ErrAlreadyActive) {
		yellow.Println("  Game mode is already active.")
		return
	}
	if err != nil {
		red.Printf("  Error: %v\n", err)
		return
	}
	printReport(rep)
}

func printReport(rep gaming.Report) {
	if rep.GameFound {
		cyan.Printf("  Game: %s (pid %d)\n", rep.Game.Name, rep.Game.PID)
	}
	ops := make([]string, 0, len(rep.Results))
	for op := range rep.Results {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		if rep.Results[op] {
			fmt.Printf("  ✓ %s\n", op)
		} else {
			red.Printf("  ✗ %s\n", op)
		}
	}
	fmt.Printf("  %s finished in %s\n", rep.Transition, rep.Duration.Round(time.Millisecond))
}

type optionItem struct {
	label string
	get   func(*gaming.Options) *bool
}

var optionItems = []optionItem{
	{"Kill explorer and focus game", func(o *gaming.Options) *bool { return &o.SuspendTargetShell }},
	{"Kill browsers", func(o *gaming.Options) *bool { return &o.SuspendBrowsers }},
	{"Kill launchers", func(o *gaming.Options) *bool { return &o.SuspendLaunchers }},
	{"Isolate network (LLMNR/NetBIOS)", func(o *gaming.Options) *bool { return &o.IsolateNetwork }},
	{"Advanced playbook", func(o *gaming.Options) *bool { return &o.AdvancedTweaks }},
	{"Unpark CPU cores", func(o *gaming.Options) *bool { return &o.Hardware.CoreParking }},
	{"MMCSS game priority", func(o *gaming.Options) *bool { return &o.Hardware.MMCSS }},
	{"Large pages", func(o *gaming.Options) *bool { return &o.Hardware.LargePages }},
	{"Hardware GPU scheduling", func(o *gaming.Options) *bool { return &o.Hardware.HAGS }},
	{"Demote background processes", func(o *gaming.Options) *bool { return &o.Hardware.ProcessDemotion }},
	{"Disable TCP auto-tuning", func(o *gaming.Options) *bool { return &o.Hardware.Bufferbloat }},
}

func cliOptions(app *App) {
	if app.Active() {
		yellow.Println("  Changes apply to the next session.")
	}
	for {
		opts := app.Options()
		items := make([]string, 0, len(optionItems)+1)
		for _, it := range optionItems {
			mark := "[ ]"
			if *it.get(&opts) {
				mark = "[x]"
			}
			items = append(items, mark+" "+it.label)
		}
		items = append(items, "Back")

		prompt := promptui.Select{Label: "Session Options", Items: items, Size: len(items)}
		i, _, err := prompt.Run()
		if err != nil || i == len(optionItems) {
			return
		}
		v := optionItems[i].get(&opts)
		*v = !*v
		app.SetOptions(opts)
	}
}

func cliPresets(app *App) {
	all := profiles.AllProfiles()
	items := make([]string, 0, len(all)+1)
	for _, p := range all {
		items = append(items, fmt.Sprintf("%s - %s", p.Name, p.Description))
	}
	items = append(items, "Back")

	prompt := promptui.Select{Label: "Presets", Items: items, Size: len(items)}
	i, _, err := prompt.Run()
	if err != nil || i == len(all) {
		return
	}
	app.ApplyPreset(all[i].ID)
	green.Printf("  ✓ %s preset loaded\n", all[i].Name)
}

func confirm(label string) bool {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}

func cliBufferbloat(app *App) {
	on := app.BufferbloatFixEnabled()
	fmt.Printf("  TCP auto-tuning disabled: %v\n", on)
	label := "Disable TCP auto-tuning permanently"
	if on {
		label = "Restore TCP auto-tuning"
	}
	if !confirm(label) {
		return
	}
	if app.SetBufferbloatFix(!on) {
		green.Println("  ✓ Done")
	} else {
		red.Println("  ✗ netsh reported a failure")
	}
}

func cliMPO(app *App) {
	on := app.MPOEnabled()
	fmt.Printf("  Multiplane overlay enabled: %v\n", on)
	label := "Disable multiplane overlay"
	if !on {
		label = "Enable multiplane overlay"
	}
	if !confirm(label) {
		return
	}
	if app.SetMPO(!on) {
		green.Println("  ✓ Done. Sign out or restart for DWM to pick it up.")
	} else {
		red.Println("  ✗ Could not write the DWM settings")
	}
}

func cliStartup(app *App) {
	on := app.RunOnStartup()
	fmt.Printf("  Run on startup: %v\n", on)
	label := "Run on startup"
	if on {
		label = "Stop running on startup"
	}
	if !confirm(label) {
		return
	}
	if app.SetRunOnStartup(!on) {
		green.Println("  ✓ Done")
	} else {
		red.Println("  ✗ Could not update the Run entry")
	}
}

func cliMemory(app *App) {
	before, err := memory.GetMemoryStatus()
	if err != nil {
		red.Printf("  Error: %v\n", err)
		return
	}
	printMemory("Before", before)
	if !confirm("Trim working sets now") {
		return
	}
	res, ok := app.FlushMemory()
	if !ok {
		red.Println("  ✗ Memory flushing is unavailable")
		return
	}
	green.Printf("  ✓ Trimmed %d processes (%d skipped)\n", res.Trimmed, res.Failed)
	if after, err := memory.GetMemoryStatus(); err == nil {
		printMemory("After", after)
	}
}

func printMemory(label string, s *memory.Status) {
	fmt.Printf("  %-7s %s used / %s total (%.1f%%), %s available\n",
		label+":", formatBytesHuman(int64(s.Used)), formatBytesHuman(int64(s.Total)),
		s.UsagePercent, formatBytesHuman(int64(s.Available)))
}

func cliStats(app *App) {
	yellow.Println("  Sampling load...")
	counters, load, err := app.Stats()
	cyan.Println("  ═══ Load ═══")
	fmt.Printf("  CPU:  %.1f%%\n  RAM:  %.1f%%\n  Disk: %.1f%%\n", load.CPUUsage, load.RAMUsage, load.DiskUsage)
	if err != nil {
		red.Printf("  Error reading counters: %v\n", err)
		return
	}
	cyan.Println("  ═══ Counters ═══")
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-70s %.0f\n", name, counters[name])
	}
}

func formatBytesHuman(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
