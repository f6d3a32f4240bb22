package router

import (
	"distributed-kvstore/internal/ringhash"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Transport exposes the router's client-facing RPC surface over gin,
// mirroring internal/node.Transport's structure.
type Transport struct {
	svc *Service
}

// NewTransport creates a Transport.
func NewTransport(s *Service) *Transport {
	return &Transport{svc: s}
}

// Register mounts the router's RPC surface on r.
func (t *Transport) Register(r *gin.Engine) {
	rpc := r.Group("/rpc")
	rpc.POST("/init", t.init)
	rpc.POST("/destroy", t.destroy)
	rpc.GET("/get/:key", t.get)
	rpc.POST("/put", t.put)
	rpc.POST("/toggle_server", t.toggleServer)
}

type initRequest struct {
	ServerList []string `json:"server_list" binding:"required"`
}

type statusResponse struct {
	Code int `json:"code"`
}

func (t *Transport) init(c *gin.Context) {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	servers, err := ParseServerList(req.ServerList)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := t.svc.Init(c.Request.Context(), servers)
	c.JSON(http.StatusOK, statusResponse{Code: code})
}

func (t *Transport) destroy(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Code: t.svc.Destroy()})
}

type getResponse struct {
	Value *string `json:"value,omitempty"`
	Code  int     `json:"code"`
}

func (t *Transport) get(c *gin.Context) {
	key := c.Param("key")
	value, code := t.svc.Get(c.Request.Context(), key)
	c.JSON(http.StatusOK, getResponse{Value: value, Code: code})
}

type putRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (t *Transport) put(c *gin.Context) {
	var req putRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code := t.svc.Put(c.Request.Context(), req.Key, req.Value)
	c.JSON(http.StatusOK, statusResponse{Code: code})
}

type toggleServerRequest struct {
	Host string `json:"host" binding:"required"`
	Port int    `json:"port" binding:"required"`
}

func (t *Transport) toggleServer(c *gin.Context) {
	var req toggleServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := t.svc.ToggleServer(c.Request.Context(), ringhash.NodeAddr{Host: req.Host, Port: req.Port}); err != nil {
		c.JSON(http.StatusOK, statusResponse{Code: -1})
		return
	}
	c.JSON(http.StatusOK, statusResponse{Code: 0})
}
