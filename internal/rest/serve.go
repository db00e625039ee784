// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/rasterwarp/internal/geotransform"
	"github.com/mlnoga/rasterwarp/internal/warp"
)

// Serve starts the demo HTTP server exposing the warp kernel as a single
// synchronous endpoint.
func Serve() {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/warp", postWarp)
		}
	}
	r.Run() // listen and serve on 0.0.0.0:8080
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

type warpRequest struct {
	ElementFormat string     `json:"elementFormat"`
	ResampleMode  string     `json:"resampleMode"`
	BandCount     int        `json:"bandCount"`
	SrcWidth      int        `json:"srcWidth"`
	SrcHeight     int        `json:"srcHeight"`
	DstWidth      int        `json:"dstWidth"`
	DstHeight     int        `json:"dstHeight"`
	Affine        [6]float64 `json:"affine"`   // src-to-dst, GDAL six-parameter convention
	SrcBands      []string   `json:"srcBands"` // base64-encoded, one per band
	MaxGoroutines int        `json:"maxGoroutines"`
}

type warpResponse struct {
	DstBands []string `json:"dstBands"`
}

// postWarp decodes a self-contained warp request (geometry, an affine
// transform, and base64 pixel buffers), runs the kernel synchronously, and
// returns the warped destination buffers the same way. Intended for small
// demo payloads, not production tile serving.
func postWarp(c *gin.Context) {
	var req warpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format, err := warp.ParseElementFormat(req.ElementFormat)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := warp.ParseResampleMode(req.ResampleMode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.SrcBands) != req.BandCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "srcBands length must match bandCount"})
		return
	}

	srcBands := make([][]byte, req.BandCount)
	for i, encoded := range req.SrcBands {
		buf, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "srcBands[" + strconv.Itoa(i) + "]: " + err.Error()})
			return
		}
		srcBands[i] = buf
	}

	dstElemSize := format.ElementSize()
	dstBands := make([][]byte, req.BandCount)
	for i := range dstBands {
		dstBands[i] = make([]byte, req.DstWidth*req.DstHeight*format.BandStride()*dstElemSize)
	}

	fwd := geotransform.Affine{
		A: req.Affine[0], B: req.Affine[1], C: req.Affine[2],
		D: req.Affine[3], E: req.Affine[4], F: req.Affine[5],
	}
	transformer, err := geotransform.NewTransformer(fwd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	k := &warp.Kernel{
		ResampleMode:  mode,
		ElementFormat: format,
		BandCount:     req.BandCount,
		SrcWidth:      req.SrcWidth,
		SrcHeight:     req.SrcHeight,
		SrcBands:      srcBands,
		DstWidth:      req.DstWidth,
		DstHeight:     req.DstHeight,
		DstBands:      dstBands,
		Transformer:   transformer.TransformFunc,
		MaxGoroutines: req.MaxGoroutines,
	}
	if err := k.PerformWarp(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := warpResponse{DstBands: make([]string, req.BandCount)}
	for i, band := range dstBands {
		resp.DstBands[i] = base64.StdEncoding.EncodeToString(band)
	}
	c.JSON(http.StatusOK, resp)
}
