package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zulandar/taskdeck/internal/models"
)

func TestWebsocket_ReceivesTaskEvents(t *testing.T) {
	router, _ := testRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	resp, err := http.Post(srv.URL+"/tasks", "application/json",
		strings.NewReader(`{"name":"Live task","column":"todo"}`))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	// One mutation fans out two events, an activity and a task record.
	types := map[string]bool{}
	for i := 0; i < 2; i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		var event struct {
			Type string       `json:"type"`
			Task *models.Task `json:"task"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("decode: %v", err)
		}
		types[event.Type] = true
		if event.Type == "task:created" && (event.Task == nil || event.Task.Name != "Live task") {
			t.Errorf("task payload = %+v", event.Task)
		}
	}
	if !types["task:created"] || !types["activity:created"] {
		t.Errorf("event types = %v, want task:created and activity:created", types)
	}
}
