package github

import (
	"regexp"
	"strings"
)

var (
	reInvisible    = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF]")
	reControl      = regexp.MustCompile("[\u0000-\u0008\u000B\u000C\u000E-\u001F\u007F-\u009F]")
	reSoftHyphen   = regexp.MustCompile("\u00AD")
	reBidi         = regexp.MustCompile("[\u202A-\u202E\u2066-\u2069]")
	reHTMLComments = regexp.MustCompile(`<!--[\s\S]*?-->`)

	reGitHubPATClassic   = regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`)
	reGitHubOAuth        = regexp.MustCompile(`\bgho_[A-Za-z0-9]{36}\b`)
	reGitHubInstallation = regexp.MustCompile(`\bghs_[A-Za-z0-9]{36}\b`)
	reGitHubRefresh      = regexp.MustCompile(`\bghr_[A-Za-z0-9]{36}\b`)
	reGitHubFineGrained  = regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{11,221}\b`)
)

const redacted = "[REDACTED_GITHUB_TOKEN]"

// StripHTMLComments removes HTML comments.
func StripHTMLComments(s string) string {
	return reHTMLComments.ReplaceAllString(s, "")
}

// StripInvisibleCharacters removes zero-width and control chars.
func StripInvisibleCharacters(s string) string {
	s = reInvisible.ReplaceAllString(s, "")
	s = reControl.ReplaceAllString(s, "")
	s = reSoftHyphen.ReplaceAllString(s, "")
	s = reBidi.ReplaceAllString(s, "")
	return s
}

// RedactGitHubTokens censors GitHub token-like strings.
func RedactGitHubTokens(s string) string {
	s = reGitHubPATClassic.ReplaceAllString(s, redacted)
	s = reGitHubOAuth.ReplaceAllString(s, redacted)
	s = reGitHubInstallation.ReplaceAllString(s, redacted)
	s = reGitHubRefresh.ReplaceAllString(s, redacted)
	s = reGitHubFineGrained.ReplaceAllString(s, redacted)
	return s
}

// RedactSecrets censors token-like strings plus every exact secret value given.
// Values shorter than 8 characters are ignored to avoid mangling ordinary text.
func RedactSecrets(s string, secrets ...string) string {
	for _, secret := range secrets {
		if len(secret) < 8 {
			continue
		}
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return RedactGitHubTokens(s)
}

// SanitizeBody cleans agent-written PR body text before it is published.
func SanitizeBody(s string) string {
	if s == "" {
		return s
	}
	s = StripHTMLComments(s)
	s = StripInvisibleCharacters(s)
	s = RedactGitHubTokens(s)
	return strings.TrimSpace(s) + "\n"
}
