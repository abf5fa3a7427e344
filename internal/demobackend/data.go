package demobackend

import "github.com/raysh454/spectre/internal/model"

// knownBanners maps ports to the banner a demo host answers with and the
// vulnerability it matches, if any.
var knownBanners = map[int]model.PortFinding{
	21:   {Port: 21, Banner: "vsFTPd 2.3.4", CVE: "CVE-2011-2523"},
	22:   {Port: 22, Banner: "SSH-2.0-OpenSSH_8.9p1 Ubuntu-3ubuntu0.6"},
	25:   {Port: 25, Banner: "220 mail.example ESMTP Exim 4.87", CVE: "CVE-2019-10149"},
	80:   {Port: 80, Banner: "Service detected, but no banner returned."},
	443:  {Port: 443, Banner: "Service detected, but no banner returned."},
	445:  {Port: 445, Banner: "No banner (Error or Timeout)"},
	3306: {Port: 3306, Banner: "5.7.33-0ubuntu0.18.04.1"},
	8080: {Port: 8080, Banner: "Apache Tomcat/9.0.30", CVE: "CVE-2020-1938"},
}

// defaultPorts is scanned when the request names none.
var defaultPorts = []int{21, 22, 23, 25, 53, 80, 110, 143, 443, 445, 3306, 3389, 8080}

var subdomainWords = []string{"www", "mail", "admin", "dev", "api", "vpn"}

var socialSites = []struct {
	Name    string
	Pattern string
}{
	{"GitHub", "https://github.com/%s"},
	{"Reddit", "https://www.reddit.com/user/%s"},
	{"Twitter", "https://twitter.com/%s"},
	{"Instagram", "https://www.instagram.com/%s"},
	{"GitLab", "https://gitlab.com/%s"},
	{"Medium", "https://medium.com/@%s"},
	{"Keybase", "https://keybase.io/%s"},
}

var directoryWords = []struct {
	Path   string
	Status int
}{
	{"admin", 403},
	{"login", 200},
	{"robots.txt", 200},
	{"backup", 301},
	{".git/HEAD", 200},
	{"server-status", 401},
}

// kevCatalog is a slice of the CISA Known Exploited Vulnerabilities feed,
// deliberately out of date order.
var kevCatalog = []model.FeedItem{
	{CVEID: "CVE-2011-2523", DateAdded: "2021-11-03", VulnerabilityName: "vsftpd Backdoor Command Execution Vulnerability"},
	{CVEID: "CVE-2024-3400", DateAdded: "2024-04-12", VulnerabilityName: "Palo Alto Networks PAN-OS Command Injection Vulnerability"},
	{CVEID: "CVE-2023-4966", DateAdded: "2023-10-18", VulnerabilityName: "Citrix NetScaler ADC and NetScaler Gateway Buffer Overflow Vulnerability"},
	{CVEID: "CVE-2024-21887", DateAdded: "2024-01-10", VulnerabilityName: "Ivanti Connect Secure and Policy Secure Command Injection Vulnerability"},
	{CVEID: "CVE-2019-10149", DateAdded: "2021-11-03", VulnerabilityName: "Exim Mail Transfer Agent (MTA) Improper Input Validation"},
	{CVEID: "CVE-2024-1709", DateAdded: "2024-02-22", VulnerabilityName: "ConnectWise ScreenConnect Authentication Bypass Vulnerability"},
	{CVEID: "CVE-2023-34362", DateAdded: "2023-06-02", VulnerabilityName: "Progress MOVEit Transfer SQL Injection Vulnerability"},
	{CVEID: "CVE-2020-1938", DateAdded: "2022-03-03", VulnerabilityName: "Apache Tomcat Improper Privilege Management Vulnerability"},
	{CVEID: "CVE-2024-4577", DateAdded: "2024-06-12", VulnerabilityName: "PHP-CGI OS Command Injection Vulnerability"},
	{CVEID: "CVE-2023-22515", DateAdded: "2023-10-05", VulnerabilityName: "Atlassian Confluence Data Center and Server Broken Access Control Vulnerability"},
	{CVEID: "CVE-2024-6387", DateAdded: "2024-07-01", VulnerabilityName: "OpenSSH Signal Handler Race Condition Vulnerability"},
	{CVEID: "CVE-2023-20198", DateAdded: "2023-10-16", VulnerabilityName: "Cisco IOS XE Web UI Privilege Escalation Vulnerability"},
}
