package entity

import (
	"strings"

	"github.com/bnema/recall/internal/domain/fuzzy"
	domainurl "github.com/bnema/recall/internal/domain/url"
)

// NormalizeEntry turns a raw visit into a fully derived entry.
// Missing fields fall back to the previous entry for the same URL when one is given.
// A visit without a URL is not rejected; it normalizes to "", so all such visits share
// one store slot.
func NormalizeEntry(v Visit, fallback *HistoryEntry) *HistoryEntry {
	url := v.URL
	if url == "" && fallback != nil {
		url = fallback.URL
	}
	title := v.Title
	if title == "" && fallback != nil {
		title = fallback.Title
	}

	var visitCount int64 = 1
	switch {
	case v.VisitCount != nil:
		visitCount = *v.VisitCount
	case fallback != nil && fallback.VisitCount != 0:
		visitCount = fallback.VisitCount
	}

	var lastVisit int64
	switch {
	case v.LastVisitTime != nil:
		lastVisit = *v.LastVisitTime
	case fallback != nil:
		lastVisit = fallback.LastVisitTime
	}

	urlNoProtocol := domainurl.StripProtocol(url)
	titleTarget := fuzzy.NewTarget(title)
	urlTarget := fuzzy.NewTarget(urlNoProtocol)
	hostLower := strings.ToLower(domainurl.ExtractHost(urlNoProtocol))

	return &HistoryEntry{
		URL:            url,
		Title:          title,
		TitleLower:     titleTarget.String(),
		URLNoProtocol:  urlNoProtocol,
		URLLower:       urlTarget.String(),
		HostLower:      hostLower,
		HostLowerNoWWW: domainurl.StripWWW(hostLower),
		VisitCount:     visitCount,
		VisitBonus:     ComputeVisitBonus(visitCount),
		LastVisitTime:  lastVisit,
		Description:    Describe(title, url),
		TitleTarget:    titleTarget,
		URLTarget:      urlTarget,
	}
}

// Describe builds the escaped display string: title (or URL), then the URL in a <url> tag.
func Describe(title, url string) string {
	display := title
	if display == "" {
		display = url
	}
	return domainurl.EscapeXML(display) + " — <url>" + domainurl.EscapeXML(url) + "</url>"
}
