//go:build windows

package webgpu

import (
	"fmt"
	"strings"

	"github.com/born-ml/strided/internal/grid"
)

// WGSL kernels for the 32-bit variants. Buffers are bound as arrays of u32
// words; offsets and strides arrive in words. Half precision and 64-bit
// kernels have no WGSL form and run on the fallback executor.

// shader is the per-kernel part of a compute shader.
type shader struct {
	aux  bool   // binds the aux buffer at binding 3
	body string // statements run for every in-extent invocation
}

// Maximum workgroup geometry guaranteed by the WebGPU default limits.
const (
	maxWorkgroupInvocations = 256
	maxWorkgroupSizeXY      = 256
	maxWorkgroupSizeZ       = 64
	maxWorkgroupsPerDim     = 65535
)

const shaderHeader = `
struct Params {
    offsets: vec4<u32>,    // in, aux, out, axis
    in_stride: vec4<u32>,
    aux_stride: vec4<u32>,
    out_stride: vec4<u32>,
    in_dims: vec4<u32>,
    extent: vec4<u32>,
}

@group(0) @binding(0) var<storage, read> src_buf: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst_buf: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
`

const auxBinding = `
@group(0) @binding(3) var<storage, read> aux_buf: array<u32>;
`

const shaderMain = `
fn addr(base: u32, c: vec3<u32>, s: vec4<u32>) -> u32 {
    return base + c.x * s.x + c.y * s.y + c.z * s.z;
}

@compute @workgroup_size(%d, %d, %d)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.extent.x || gid.y >= params.extent.y || gid.z >= params.extent.z) {
        return;
    }
%s
}
`

var shaders = map[string]shader{
	"gather_float32_float32": {aux: true, body: `
    let idx = aux_buf[params.offsets.y + gid.y * params.aux_stride.x];
    var src: u32;
    var dst: u32;
    switch params.offsets.w {
        case 0u: {
            src = addr(params.offsets.x, vec3<u32>(gid.x, idx, gid.z), params.in_stride);
            dst = addr(params.offsets.z, gid, params.out_stride);
        }
        case 1u: {
            src = addr(params.offsets.x, vec3<u32>(idx, gid.z, 0u), params.in_stride);
            dst = addr(params.offsets.z, vec3<u32>(gid.y, gid.z, 0u), params.out_stride);
        }
        case 2u: {
            src = addr(params.offsets.x, vec3<u32>(gid.z, 0u, 0u), params.in_stride);
            dst = addr(params.offsets.z, vec3<u32>(gid.z, 0u, 0u), params.out_stride);
        }
        default: {
            return;
        }
    }
    dst_buf[dst] = src_buf[src];`},

	"tile_float32_float32": {body: `
    let wrapped = gid % params.in_dims.xyz;
    dst_buf[addr(params.offsets.z, gid, params.out_stride)] = src_buf[addr(params.offsets.x, wrapped, params.in_stride)];`},

	"cast_float32_int32": {body: `
    let v = bitcast<f32>(src_buf[addr(params.offsets.x, gid, params.in_stride)]);
    dst_buf[addr(params.offsets.z, gid, params.out_stride)] = bitcast<u32>(i32(floor(v)));`},

	"cast_float32_float32": {body: `
    dst_buf[addr(params.offsets.z, gid, params.out_stride)] = src_buf[addr(params.offsets.x, gid, params.in_stride)];`},

	"cast_float32_int32_v": {body: `
    let base = vec3<u32>(gid.x * 4u, gid.y, gid.z);
    let s = addr(params.offsets.x, base, params.in_stride);
    let d = addr(params.offsets.z, base, params.out_stride);
    for (var i = 0u; i < 4u; i++) {
        let v = bitcast<f32>(src_buf[s + i * params.in_stride.x]);
        dst_buf[d + i * params.out_stride.x] = bitcast<u32>(i32(floor(v)));
    }`},

	"cast_float32_float32_v": {body: `
    let base = vec3<u32>(gid.x * 4u, gid.y, gid.z);
    let s = addr(params.offsets.x, base, params.in_stride);
    let d = addr(params.offsets.z, base, params.out_stride);
    for (var i = 0u; i < 4u; i++) {
        dst_buf[d + i * params.out_stride.x] = src_buf[s + i * params.in_stride.x];
    }`},
}

// source assembles the WGSL module for a kernel and workgroup size.
func (s shader) source(block grid.Dim3) string {
	var b strings.Builder
	b.WriteString(shaderHeader)
	if s.aux {
		b.WriteString(auxBinding)
	}
	fmt.Fprintf(&b, shaderMain, block.X, block.Y, block.Z, s.body)
	return b.String()
}

// fitsLimits reports whether a launch geometry is within the default
// WebGPU limits.
func fitsLimits(g, block grid.Dim3) bool {
	return block.Size() <= maxWorkgroupInvocations &&
		block.X <= maxWorkgroupSizeXY && block.Y <= maxWorkgroupSizeXY && block.Z <= maxWorkgroupSizeZ &&
		g.X <= maxWorkgroupsPerDim && g.Y <= maxWorkgroupsPerDim && g.Z <= maxWorkgroupsPerDim
}
