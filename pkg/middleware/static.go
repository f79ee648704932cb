package middleware

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Static はroot配下に存在するファイルを配信するGinミドルウェアを返す。
// GET/HEAD以外のリクエストや、対応するファイルが無いリクエストは後続に渡す。
// ディレクトリへのリクエストはindex.htmlがあればそれを配信し、一覧は返さない。
func Static(root string) gin.HandlerFunc {
	fs := gin.Dir(root, false)

	return func(c *gin.Context) {
		if root == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.Next()
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		if !exists(fs, name) {
			c.Next()
			return
		}

		c.FileFromFS(name, fs)
		c.Abort()
	}
}

// exists はfsにnameのファイル（ディレクトリならindex.html）が存在するかを判定する。
func exists(fs http.FileSystem, name string) bool {
	f, err := fs.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	return exists(fs, path.Join(name, "index.html"))
}
