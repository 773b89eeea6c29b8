package integration_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hyprwatch/hyprwatch/citest/testutil"
	"github.com/hyprwatch/hyprwatch/internal/listener"
	"github.com/hyprwatch/hyprwatch/internal/server"
	"github.com/hyprwatch/hyprwatch/internal/transport"
	"github.com/hyprwatch/hyprwatch/pkg/types"
)

var _ = Describe("SSE bridge", func() {
	It("re-broadcasts compositor events over HTTP", func() {
		mock, err := testutil.StartMockCompositor(filepath.Join(GinkgoT().TempDir(), "s.sock"))
		Expect(err).NotTo(HaveOccurred())
		defer mock.Stop()

		l := listener.New(transport.UnixDialer{Path: mock.Path})
		srv := server.New(server.Config{Heartbeat: time.Minute}, l)
		ts := httptest.NewServer(srv.Handler())
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := l.Start(ctx)
		Eventually(mock.HasClient).Should(BeTrue())

		resp, err := http.Get(ts.URL + "/events")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

		reader := bufio.NewReader(resp.Body)

		// The connected comment is written after the tap subscription
		// is live; only then is it safe to emit.
		Expect(readUntil(reader, "connected")).To(Succeed())
		Expect(mock.Emit(types.Event{Type: types.MonitorAdded, Data: "HDMI-A-1"})).To(Succeed())

		Expect(readUntil(reader, "event: "+string(types.MonitorAdded))).To(Succeed())
		Expect(readUntil(reader, `"data":"HDMI-A-1"`)).To(Succeed())

		mock.CloseClient()
		Eventually(done).Should(Receive(BeNil()))
	})
})

// readUntil consumes SSE lines until one contains want.
func readUntil(reader *bufio.Reader, want string) error {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.Contains(line, want) {
			return nil
		}
	}
}
