package gaming

import "gamemode/internal/registry"

// Process lists, matched by image name without extension.
var (
	Browsers = []string{"chrome", "firefox", "msedge", "brave", "opera", "vivaldi", "thorium"}

	Launchers = []string{"epicgameslauncher", "battle.net", "origin", "gog galaxy"}

	// ShellUX processes are suspended rather than killed so they can be
	// resumed where they left off.
	ShellUX = []string{
		"SearchHost", "SearchApp", "TextInputHost", "LockApp",
		"MoNotificationUx", "ShellExperienceHost", "StartMenuExperienceHost",
	}

	StartMenuReplacements = []string{"StartAllBackX64", "StartAllBack", "OpenShellMenu", "ClassicStartMenu"}

	Bloatware = []string{
		"smartscreen", "Microsoft.Windows.SmartScreen", "Cortana",
		"PhoneExperienceHost", "CrossDeviceResume", "CrossDeviceService",
		"Widgets", "WidgetService", "Mousocoreworker", "Microsoft.Media.Player",
		"OneDrive", "Dropbox", "GoogleDriveFS",
		"Teams", "Skype", "GameBar", "GameBarPresenceWriter", "YourPhone",
		"nvcontainer", "NVDisplay.Container", "NVIDIA Share",
		"NVIDIA Web Helper", "NVIDIA Overlay",
	}

	Peripherals = []string{
		"iCue", "lghub_agent", "Razer Synapse Service", "ArmouryCrate.Service",
		"Razer Central", "Razer Synapse 3", "LGHUB", "Lghub_updater",
	}
)

const shellProcess = "explorer"

const (
	winlogonPath     = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Winlogon`
	autoRestartShell = "AutoRestartShell"

	gamesTaskPath = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Multimedia\SystemProfile\Tasks\Games`
	boostModePath = `SYSTEM\CurrentControlSet\Control\Power\PowerSettings\54533251-82be-4824-96c1-47b60b740d00\be337238-0d82-4146-a960-4f3749d470c7`
	gameBarPath   = `Software\Microsoft\GameBar`
)

// alwaysOn is applied on every enable. The first entry makes the processor
// boost mode setting visible in the power options.
var alwaysOn = []registry.Tweak{
	{Root: registry.LocalMachine, Path: boostModePath, Name: "Attributes", Value: registry.DWord(2)},
	{Root: registry.LocalMachine, Path: `SYSTEM\CurrentControlSet\Control\PriorityControl`, Name: "Win32PrioritySeparation", Value: registry.DWord(38)},
	{Root: registry.CurrentUser, Path: gameBarPath, Name: "AutoGameModeEnabled", Value: registry.DWord(1)},
	{Root: registry.CurrentUser, Path: gameBarPath, Name: "AllowAutoGameMode", Value: registry.DWord(1)},
	{Root: registry.LocalMachine, Path: gamesTaskPath, Name: "Priority", Value: registry.DWord(6)},
	{Root: registry.LocalMachine, Path: gamesTaskPath, Name: "GPU Priority", Value: registry.DWord(8)},
}

// killList is every process terminated on enable for opts.
func killList(opts Options) []string {
	n := len(StartMenuReplacements) + len(Bloatware) + len(Peripherals) + len(Browsers) + len(Launchers)
	list := make([]string, 0, n)
	list = append(list, StartMenuReplacements...)
	if opts.SuspendBrowsers {
		list = append(list, Browsers...)
	}
	list = append(list, Bloatware...)
	list = append(list, Peripherals...)
	if opts.SuspendLaunchers {
		list = append(list, Launchers...)
	}
	return list
}
