package parserimpl

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var concatBoundaryRe = regexp.MustCompile(`\}\s*\{`)

// extractJSONLD collects every JSON-LD object embedded in the document.
// LinkedIn sometimes emits several concatenated objects in one script block;
// those are split apart and recovered individually. Malformed blocks are
// skipped with a warning, never an error.
func extractJSONLD(doc *goquery.Document, warn func(msg string)) []map[string]any {
	var results []map[string]any

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			return
		}

		var single map[string]any
		if err := json.Unmarshal([]byte(txt), &single); err == nil {
			results = append(results, single)
			return
		}

		var list []map[string]any
		if err := json.Unmarshal([]byte(txt), &list); err == nil {
			results = append(results, list...)
			return
		}

		recovered := false
		for _, candidate := range splitConcatenated(txt) {
			var obj map[string]any
			if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
				results = append(results, obj)
				recovered = true
			}
		}
		if !recovered {
			warn("json-ld: skipped malformed script block")
		}
	})

	return results
}

// splitConcatenated naively splits "{...} {...} {...}" into standalone JSON
// candidates, restoring the braces eaten at each boundary: interior parts
// lost both their opening and closing brace.
func splitConcatenated(txt string) []string {
	bounds := concatBoundaryRe.FindAllStringIndex(txt, -1)
	if len(bounds) == 0 {
		return nil
	}

	var parts []string
	start := 0
	for i, b := range bounds {
		part := txt[start:b[0]] + "}"
		if i > 0 {
			part = "{" + part
		}
		parts = append(parts, part)
		start = b[1]
	}
	parts = append(parts, "{"+txt[start:])
	return parts
}

// selectPosting picks the JSON-LD object describing the post: the first one
// typed as a social media posting or video, else the first one carrying an
// article body or interaction statistics.
func selectPosting(objs []map[string]any) map[string]any {
	for _, obj := range objs {
		typ := jsonldType(obj)
		if strings.Contains(typ, "SocialMediaPosting") || strings.Contains(typ, "VideoObject") {
			return obj
		}
		if _, ok := obj["articleBody"]; ok {
			return obj
		}
		if _, ok := obj["interactionStatistic"]; ok {
			return obj
		}
	}
	return nil
}

func jsonldType(obj map[string]any) string {
	v, ok := obj["@type"]
	if !ok {
		v = obj["type"]
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var parts []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// jsonldString returns the first non-empty string value among the keys.
func jsonldString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// jsonldAuthor resolves the author/creator/publisher entry, which may be an
// object, a bare string, or a list of either.
func jsonldAuthor(posting map[string]any) (name, profileURL string) {
	for _, key := range []string{"author", "creator", "publisher"} {
		v, ok := posting[key]
		if !ok {
			continue
		}
		if n, u := authorFrom(v); n != "" || u != "" {
			return n, u
		}
	}
	return "", ""
}

func authorFrom(v any) (name, profileURL string) {
	switch a := v.(type) {
	case map[string]any:
		return jsonldString(a, "name"), jsonldString(a, "url", "sameAs")
	case string:
		return a, ""
	case []any:
		if len(a) > 0 {
			return authorFrom(a[0])
		}
	}
	return "", ""
}

// jsonldImages collects thumbnail/image URLs from the posting, including the
// image of shared content.
func jsonldImages(posting map[string]any) []string {
	var images []string
	add := func(v any) {
		switch img := v.(type) {
		case string:
			if img != "" {
				images = append(images, img)
			}
		case map[string]any:
			if u := jsonldString(img, "url"); u != "" {
				images = append(images, u)
			}
		}
	}

	for _, key := range []string{"thumbnailUrl", "image", "thumbnail", "thumbnailImage"} {
		if v, ok := posting[key]; ok {
			add(v)
		}
	}
	if shared, ok := posting["sharedContent"].(map[string]any); ok {
		for _, key := range []string{"image", "thumbnail"} {
			if v, ok := shared[key]; ok {
				add(v)
			}
		}
	}
	return images
}

// jsonldSharedURL returns the URL of content re-shared by this post, if any.
func jsonldSharedURL(posting map[string]any) string {
	shared, ok := posting["sharedContent"].(map[string]any)
	if !ok {
		return ""
	}
	return jsonldString(shared, "url")
}

// jsonldStats reads interactionStatistic entries into like/comment/share
// counts. Counts come back as JSON numbers or short-number strings.
func jsonldStats(posting map[string]any) (likes, comments, shares *int) {
	v, ok := posting["interactionStatistic"]
	if !ok {
		v, ok = posting["interactionStatistics"]
	}
	if !ok {
		return nil, nil, nil
	}

	var entries []any
	switch s := v.(type) {
	case map[string]any:
		entries = []any{s}
	case []any:
		entries = s
	}

	for _, e := range entries {
		stat, ok := e.(map[string]any)
		if !ok {
			continue
		}
		count, ok := statCount(stat)
		if !ok {
			continue
		}
		itype := strings.ToLower(interactionType(stat))
		switch {
		case strings.Contains(itype, "like"):
			likes = &count
		case strings.Contains(itype, "comment"):
			comments = &count
		case strings.Contains(itype, "share"), strings.Contains(itype, "resha"):
			shares = &count
		}
	}
	return likes, comments, shares
}

func interactionType(stat map[string]any) string {
	switch t := stat["interactionType"].(type) {
	case string:
		return t
	case map[string]any:
		return jsonldString(t, "@type", "type")
	default:
		return ""
	}
}

func statCount(stat map[string]any) (int, bool) {
	for _, key := range []string{"userInteractionCount", "interactionCount"} {
		switch c := stat[key].(type) {
		case float64:
			return int(c), true
		case string:
			if n, ok := ParseShortNumber(c); ok {
				return n, true
			}
		}
	}
	return 0, false
}
