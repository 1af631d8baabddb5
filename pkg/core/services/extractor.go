package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
)

var (
	// shareLinkRe captures the domain, the share id and whatever query or fragment follows it.
	shareLinkRe = regexp.MustCompile(`(?i)https?://(?:www\.)?(115cdn\.com|anxia\.com|115\.com)/s/(\w+)([?#][^\s\p{Zs}]*)?`)

	// labeledCodeRe finds a code written next to a label, e.g. "提取码：9Q7k" or "password: ab12".
	// Full-width and no-break spaces count as whitespace.
	labeledCodeRe = regexp.MustCompile(`(?i)(?:提取码|访问码|密码|password|pwd)[\s\p{Zs}]*[:：=]?[\s\p{Zs}]*([A-Za-z0-9]{4})`)

	accessCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{4,}$`)
)

// accessCodeParams are the query keys a share URL may carry its code in
var accessCodeParams = []string{"password", "pwd", "receive_code"}

// ExtractShare scans one line for a share link.
// The first link in the line wins; a code in the URL query beats a labeled one.
func ExtractShare(line string) domain.ExtractResult {
	m := shareLinkRe.FindStringSubmatch(line)
	if m == nil {
		return domain.ExtractResult{Status: domain.NoMatch}
	}

	candidate := domain.ShareCandidate{
		ShareID:      m[2],
		SourceDomain: strings.ToLower(m[1]),
	}

	candidate.AccessCode = codeFromQuery(m[3])
	if candidate.AccessCode == "" {
		candidate.AccessCode = codeFromLabel(line)
	}

	if candidate.AccessCode == "" {
		return domain.ExtractResult{Status: domain.MissingCode, Candidate: candidate}
	}
	return domain.ExtractResult{Status: domain.Matched, Candidate: candidate}
}

func codeFromQuery(tail string) string {
	if !strings.HasPrefix(tail, "?") {
		return ""
	}
	raw := tail[1:]
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	values, err := url.ParseQuery(raw)
	if err != nil && len(values) == 0 {
		return ""
	}
	for _, name := range accessCodeParams {
		for key, vals := range values {
			if !strings.EqualFold(key, name) {
				continue
			}
			for _, v := range vals {
				if accessCodeRe.MatchString(v) {
					return v
				}
			}
		}
	}
	return ""
}

func codeFromLabel(line string) string {
	m := labeledCodeRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}
