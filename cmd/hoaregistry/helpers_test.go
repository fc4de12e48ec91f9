package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const testListMarkup = `<table><tbody>
<tr class="link-view" data-pid="101"><td>Oak Ridge HOA</td></tr>
<tr class="link-view" data-pid="102"><td>Maple Ridge HOA</td></tr>
</tbody></table>`

const testDetailMarkup = `<html><body>
<h1 class="mb-0">Oak Ridge HOA</h1>
<h6>Registration #: 10023 Registration Type: Planned Unit Development <span>Active</span> Expires: 06/30/2026</h6>
<div class="row border primary-color-border mt-4">
  <div class="col-md-4">
    <h4 class="mb-0">President</h4>
    <p class="mt-0 ml-3">Jane Doe<br>123 Main St<br>(801) 555-1234<br>jane@example.com</p>
  </div>
</div>
</body></html>`

// registryServer answers like the registry endpoint. failList makes the
// list request fail with a server error.
type registryServer struct {
	*httptest.Server
	failList atomic.Bool
}

func newRegistryServer(t *testing.T) *registryServer {
	t.Helper()

	rs := &registryServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		switch r.PostForm.Get("f") {
		case "s":
			if rs.failList.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(testListMarkup))
		case "d":
			if r.PostForm.Get("v") == "101" {
				_, _ = w.Write([]byte(testDetailMarkup))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(rs.Close)
	return rs
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
