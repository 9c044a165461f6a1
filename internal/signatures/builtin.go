package signatures

import "github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"

// Builtin signature database. Declaration order is significant: scanners stop
// at the first match.

func builtinProcessSignatures() []Signature {
	return []Signature{
		{Kind: MatchName, Pattern: "mimikatz", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Credential dumping tool"},
		{Kind: MatchName, Pattern: "lazagne", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Password recovery / stealer"},
		{Kind: MatchName, Pattern: "xmrig", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Monero cryptominer"},
		{Kind: MatchName, Pattern: "nicehash", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Cryptomining client"},
		{Kind: MatchName, Pattern: "procdump", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Memory dumping utility"},
		{Kind: MatchName, Pattern: "psexec", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Remote execution tool"},
		{Kind: MatchName, Pattern: "keylog", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Keylogger"},
		{Kind: MatchName, Pattern: "njrat", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "njRAT remote access trojan"},
		{Kind: MatchName, Pattern: "darkcomet", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "DarkComet remote access trojan"},
		{Kind: MatchName, Pattern: "quasar", Category: core.CategoryProcess, Severity: core.SeverityCritical, Description: "Quasar remote access trojan"},
	}
}

func builtinFilenameSignatures() []Signature {
	return []Signature{
		{Kind: MatchName, Pattern: "keylog", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Keylogger naming pattern"},
		{Kind: MatchName, Pattern: "stealer", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Credential stealer naming pattern"},
		{Kind: MatchName, Pattern: "trojan", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Trojan naming pattern"},
		{Kind: MatchName, Pattern: "ransom", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Ransomware naming pattern"},
		{Kind: MatchName, Pattern: "keygen", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "License keygen, commonly trojanized"},
		{Kind: MatchName, Pattern: "crack_", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Cracked software loader"},
		{Kind: MatchName, Pattern: "cracked", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Cracked software loader"},
		{Kind: MatchName, Pattern: "free_robux", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Game-currency scam payload"},
		{Kind: MatchName, Pattern: "free_vbucks", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Game-currency scam payload"},
		{Kind: MatchName, Pattern: "flashplayer_update", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Fake Flash updater"},
		{Kind: MatchName, Pattern: "codec_pack_premium", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Fake codec installer"},
		{Kind: MatchName, Pattern: "searchprotect", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "SearchProtect adware"},
		{Kind: MatchName, Pattern: "browsersafeguard", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "BrowserSafeguard adware"},
		{Kind: MatchName, Pattern: "couponarific", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "Couponarific adware"},
		{Kind: MatchName, Pattern: "pricepeep", Category: core.CategoryFile, Severity: core.SeverityMedium, Description: "PricePeep adware"},
	}
}

func builtinRegistrySignatures() []Signature {
	return []Signature{
		{Kind: MatchName, Pattern: `\temp\`, Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Runs from Temp directory"},
		{Kind: MatchName, Pattern: `\appdata\local\temp\`, Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Runs from AppData temp"},
		{Kind: MatchName, Pattern: `\public\`, Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Runs from Public folder"},
		{Kind: MatchName, Pattern: `\programdata\`, Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Runs from ProgramData"},
		{Kind: MatchName, Pattern: "powershell -enc", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Encoded PowerShell command"},
		{Kind: MatchName, Pattern: "powershell -e ", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Encoded PowerShell command"},
		{Kind: MatchName, Pattern: "-windowstyle hidden", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Hidden-window PowerShell"},
		{Kind: MatchName, Pattern: "mshta", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "MSHTA execution"},
		{Kind: MatchName, Pattern: "wscript", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Windows Script Host execution"},
		{Kind: MatchName, Pattern: "cscript", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "CScript execution"},
		{Kind: MatchName, Pattern: "regsvr32 /s /n", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Regsvr32 squiblydoo bypass"},
		{Kind: MatchName, Pattern: "rundll32", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "Rundll32 proxy execution"},
		{Kind: MatchName, Pattern: "cmd /c", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "CMD one-liner"},
		{Kind: MatchName, Pattern: "bitsadmin /transfer", Category: core.CategoryRegistry, Severity: core.SeverityHigh, Description: "BITS download job"},
	}
}

func builtinAdwareMarkers() []string {
	return []string{
		"search protect",
		"searchprotect",
		"coupon",
		"ads by",
		"deal finder",
		"price comparison",
		"browser defender",
		"shopping assistant",
		"savings sidekick",
	}
}

// builtinBadHashes seeds a minimal known-malware hash set; real deployments
// merge a definitions file on top via Store.MergeHashes.
func builtinBadHashes() map[string]string {
	return map[string]string{
		// EICAR standard anti-virus test file
		"275a021bbfb6489e54d471899f7db9d1663fc695ec2fe2a2c4538aabf651fd0f": "EICAR-Test-File",
	}
}
