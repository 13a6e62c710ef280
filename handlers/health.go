package handlers

import (
	"net/http"
	"time"

	"github.com/nijaru/ytsum/utils"
	"github.com/sirupsen/logrus"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.HandleError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logrus.WithField("remote_ip", r.RemoteAddr).Debug("Health check requested")

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func NewHealthServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HealthHandler)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
