package node

import (
	"distributed-kvstore/internal/nodeclient"
	"distributed-kvstore/internal/ringhash"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Transport exposes a Node's RPC surface over HTTP using gin.
// Request/response bodies are the shared nodeclient wire types, so the
// shapes this handler decodes are exactly the shapes nodeclient.Client
// encodes.
type Transport struct {
	node *Node
}

// NewTransport creates a Transport.
func NewTransport(n *Node) *Transport {
	return &Transport{node: n}
}

// Register mounts the node's RPC surface on r.
func (t *Transport) Register(r *gin.Engine) {
	rpc := r.Group("/rpc")
	rpc.GET("/ping", t.ping)
	rpc.POST("/toggle_active", t.toggleActive)
	rpc.POST("/routing_table", t.setRoutingTable)
	rpc.POST("/put", t.put)
	rpc.GET("/fetch/:key", t.fetch)
	rpc.POST("/coordinator_put", t.coordinatorPut)
	rpc.POST("/get", t.get)
}

func (t *Transport) ping(c *gin.Context) {
	c.JSON(http.StatusOK, nodeclient.PingResponse{Active: t.node.Ping()})
}

func (t *Transport) toggleActive(c *gin.Context) {
	t.node.ToggleActive()
	c.Status(http.StatusNoContent)
}

func (t *Transport) setRoutingTable(c *gin.Context) {
	var req nodeclient.SetRoutingTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := t.node.SetRoutingTable(req.Table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (t *Transport) put(c *gin.Context) {
	var req nodeclient.PutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var hint *ringhash.NodeAddr
	if req.HasHint {
		hint = &ringhash.NodeAddr{Host: req.HintHost, Port: req.HintPort}
	}

	result := t.node.Put(req.Key, req.Data, hint)
	c.JSON(http.StatusOK, nodeclient.PutResponse{Code: result.PutStatusCode()})
}

func (t *Transport) fetch(c *gin.Context) {
	key := c.Param("key")
	isPrimary := c.DefaultQuery("primary", "true") != "false"

	value, found := t.node.Fetch(key, isPrimary)
	c.JSON(http.StatusOK, nodeclient.FetchResponse{Value: value, Found: found})
}

func (t *Transport) coordinatorPut(c *gin.Context) {
	var req nodeclient.CoordinatorPutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := t.node.CoordinatorPut(c.Request.Context(), req.Key, req.Data, req.PreferenceList)
	c.JSON(http.StatusOK, nodeclient.CoordinatorPutResponse{Code: result.PutStatusCode()})
}

func (t *Transport) get(c *gin.Context) {
	var req nodeclient.GetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := t.node.Get(c.Request.Context(), req.Key, req.PreferenceList)
	c.JSON(http.StatusOK, nodeclient.GetResponse{Value: result.Value, Code: result.GetStatusCode()})
}
