package preview

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// Assets is the single directory of static files the preview exposes, such
// as the home marker icon. Only files below Dir are reachable, and only
// under the URL prefix "/<Prefix>/".
type Assets struct {
	Prefix string // slash separated, no leading or trailing slash, e.g. "obrazky"
	Dir    string // directory on disk
}

// AssetsFor derives the asset mount from where the page is written and the
// relative icon path the page references. The page loads "obrazky/hrabos.png"
// relative to itself, so the preview serves "<page dir>/obrazky" under
// "/obrazky/".
//
// Icons given as URLs, absolute paths, paths escaping the page directory,
// hidden directories or bare file names next to the page yield ok == false:
// nothing is served for them, since the only directory left to expose would
// be the page directory itself, which usually also holds the .env file.
func AssetsFor(outputFile, homeIcon string) (a Assets, ok bool) {
	if homeIcon == "" || strings.Contains(homeIcon, "://") {
		return Assets{}, false
	}
	icon := filepath.ToSlash(homeIcon)
	if path.IsAbs(icon) || filepath.IsAbs(homeIcon) {
		return Assets{}, false
	}

	dir := path.Dir(path.Clean(icon))
	if dir == "." || hasHiddenSegment(dir) {
		// hasHiddenSegment also catches "..".
		return Assets{}, false
	}
	return Assets{
		Prefix: dir,
		Dir:    filepath.Join(filepath.Dir(outputFile), filepath.FromSlash(dir)),
	}, true
}

// hasHiddenSegment reports whether any element of a slash separated path
// starts with a dot. That covers dotfiles, dot directories and "..".
func hasHiddenSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// handler serves files from the asset directory. Dotfiles and
// directory listings answer 404.
func (a Assets) handler() http.Handler {
	files := http.FileServer(http.Dir(a.Dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") || hasHiddenSegment(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
