package config

import "path/filepath"

// Warframe runs under Proton on Linux; its Windows profile lives inside the
// compatdata prefix of the Steam app.
const warframeSteamAppID = "230410"

func protonEELogPath(home string) string {
	return filepath.Join(home, ".steam", "steam", "steamapps", "compatdata", warframeSteamAppID,
		"pfx", "drive_c", "users", "steamuser", "AppData", "Local", "Warframe", "EE.log")
}

func windowsEELogPath(home string) string {
	return filepath.Join(home, "AppData", "Local", "Warframe", "EE.log")
}

func wslEELogPath(windowsUser string) string {
	return filepath.Join("/mnt", "c", "Users", windowsUser, "AppData", "Local", "Warframe", "EE.log")
}
