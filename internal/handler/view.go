package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

const defaultTitle = "Infinite Worlds"

func (h *ChatHandler) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := indexTmpl.Execute(c.Writer, struct{ Title string }{Title: h.title}); err != nil {
		_ = c.Error(err)
	}
}

var indexTmpl = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { background:#1b2124; color:#f0f0f0; font-family:system-ui, sans-serif; margin:0; }
  #chat-app { max-width:800px; margin:1rem auto; }
  .panel { background:#2C3539; border:1px solid #444; border-radius:12px; padding:1rem; display:flex; flex-direction:column; height:70vh; }
  #controls { display:flex; gap:.5rem; margin-bottom:.5rem; align-items:center; }
  #controls h1 { flex:1; font-size:1.1rem; margin:0; color:#FF6600; }
  #messages { flex:1; overflow-y:auto; padding:.5rem; background:#1e2a30; border-radius:8px; margin-bottom:1rem; display:flex; flex-direction:column; gap:.5rem; }
  .msg { padding:.5rem 1rem; border-radius:20px; max-width:80%; white-space:pre-wrap; line-height:1.45; }
  .user { background:#FF6600; color:#111; align-self:flex-end; }
  .assistant { background:#4a555c; color:#f1f1f1; align-self:flex-start; }
  .error { border:1px solid #e5534b; }
  .typing { font-style:italic; opacity:.8; }
  form { display:flex; gap:.5rem; }
  input { flex:1; padding:.75rem 1rem; border:1px solid #4a555c; background:#1e2a30; color:#f0f0f0; border-radius:20px; font-size:1rem; }
  button { padding:.75rem 1rem; background:#FF6600; color:#111; border:0; border-radius:20px; font-weight:600; cursor:pointer; }
  button:disabled { background:#536267; color:#aaa; cursor:not-allowed; }
</style>
</head>
<body>
<div id="chat-app">
  <div class="panel">
    <div id="controls">
      <h1>{{.Title}}</h1>
      <button id="btn-clear" type="button" aria-label="Clear chat">Clear</button>
    </div>
    <div id="messages"></div>
    <form id="chat-form">
      <input id="message-input" type="text" autocomplete="off" placeholder="Type a message and press Enter…">
      <button id="send-btn" type="submit">Send</button>
    </form>
  </div>
</div>
<script>
(function () {
  const messages = document.getElementById("messages");
  const form = document.getElementById("chat-form");
  const input = document.getElementById("message-input");
  const sendBtn = document.getElementById("send-btn");
  const clearBtn = document.getElementById("btn-clear");
  let sending = false;
  let revision = -1;

  function syncControls() {
    sendBtn.disabled = sending || input.value.trim().length === 0;
    clearBtn.disabled = sending;
  }

  function render(snap) {
    if (!snap || snap.revision <= revision) return;
    revision = snap.revision;
    sending = snap.state === "sending";
    messages.replaceChildren();
    for (const m of snap.messages || []) {
      const div = document.createElement("div");
      div.classList.add("msg", m.role);
      if (m.kind === "typing") {
        div.classList.add("typing");
        div.textContent = "DM is typing";
      } else if (m.kind === "error") {
        div.classList.add("error");
        const label = m.cause === "network" ? "[Network error] " : "[Error] ";
        div.textContent = "DM: " + label + m.content;
      } else {
        div.textContent = (m.role === "user" ? "You: " : "DM: ") + m.content;
      }
      messages.appendChild(div);
    }
    messages.scrollTop = messages.scrollHeight;
    syncControls();
  }

  async function post(path, body) {
    const res = await fetch(path, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body),
    });
    if (res.status === 204) return null;
    return { status: res.status, body: await res.json().catch(() => null) };
  }

  form.addEventListener("submit", async (e) => {
    e.preventDefault();
    const text = input.value.trim();
    if (!text || sending) return;
    try {
      const res = await post("api/chat", { message: text });
      if (res && res.status === 202) {
        input.value = "";
        render(res.body);
      }
    } catch (_) {}
    syncControls();
  });

  clearBtn.addEventListener("click", async () => {
    try {
      const res = await post("api/chat/clear", { clear: true });
      if (res && res.body && res.body.snapshot) render(res.body.snapshot);
    } catch (_) {}
  });

  input.addEventListener("input", syncControls);

  fetch("api/transcript").then((r) => r.json()).then(render).catch(() => {});
  const events = new EventSource("api/events");
  events.addEventListener("snapshot", (e) => render(JSON.parse(e.data)));
  syncControls();
})();
</script>
</body>
</html>
`))
