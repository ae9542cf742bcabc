package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

const screenTemplate = "screen"

// screenHTML shows the three regions and follows /ws for updates.
const screenHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Tsunami USGS</title>
</head>
<body>
<p id="title">{{.Title}}</p>
<p id="date">{{.Date}}</p>
<p id="tsunami_alert">{{.TsunamiAlert}}</p>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (m) {
    var env = JSON.parse(m.data);
    if (env.type !== "labels" || !env.data.ready) { return; }
    document.getElementById("title").textContent = env.data.title;
    document.getElementById("date").textContent = env.data.date;
    document.getElementById("tsunami_alert").textContent = env.data.tsunami_alert;
  };
})();
</script>
</body>
</html>
`

func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

func (h *Handler) screen(c *gin.Context) {
	c.HTML(http.StatusOK, screenTemplate, h.services.Labels())
}

// @Summary      Current screen contents
// @Description  Regions stay empty (ready=false) until an event has been displayed.
// @Tags         quake
// @Produce      json
// @Success      200  {object}  models.Labels
// @Router       /api/v1/quake [get]
func (h *Handler) getLabels(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Labels())
}
