package imaging

// reverseSearchEndpoints are upload pages of public reverse-image search engines. The
// analysed file is never published, so these are entry points for a manual search and
// are not checked for reachability.
var reverseSearchEndpoints = map[string]string{
	"google_lens": "https://lens.google.com/",
	"tineye":      "https://tineye.com/",
	"bing":        "https://www.bing.com/visualsearch",
	"yandex":      "https://yandex.com/images/",
}

func ReverseSearchLinks() map[string]string {
	links := make(map[string]string, len(reverseSearchEndpoints))
	for k, v := range reverseSearchEndpoints {
		links[k] = v
	}
	return links
}
