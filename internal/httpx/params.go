package httpx

// Params 有序请求参数集合
// 迭代顺序在单次进程内稳定（按首次插入顺序）
type Params struct {
	keys   []string
	values map[string]interface{}
}

// NewParams 创建参数集合
func NewParams() *Params {
	return &Params{values: make(map[string]interface{})}
}

// Add 写入参数
// merge 为 true 且新旧值均为 map 时合并（同名子键以新值覆盖），否则整体替换
func (p *Params) Add(value interface{}, key string, merge bool) {
	existing, ok := p.values[key]
	if !ok {
		p.keys = append(p.keys, key)
		p.values[key] = value
		return
	}

	if merge {
		oldMap, oldOK := existing.(map[string]interface{})
		newMap, newOK := value.(map[string]interface{})
		if oldOK && newOK {
			merged := make(map[string]interface{}, len(oldMap)+len(newMap))
			for k, v := range oldMap {
				merged[k] = v
			}
			for k, v := range newMap {
				merged[k] = v
			}
			p.values[key] = merged
			return
		}
	}

	p.values[key] = value
}

// Remove 删除参数（不存在时为 no-op）
func (p *Params) Remove(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Has 判断参数是否存在
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Get 获取参数值（不存在返回 nil）
func (p *Params) Get(key string) interface{} {
	return p.values[key]
}

// Keys 按插入顺序返回所有键
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// All 导出参数快照
func (p *Params) All() map[string]interface{} {
	out := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Headers 有序请求头集合
type Headers struct {
	keys   []string
	values map[string]string
}

// NewHeaders 创建请求头集合
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Add 写入请求头（同名覆盖）
func (h *Headers) Add(value string, key string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Remove 删除请求头（不存在时为 no-op）
func (h *Headers) Remove(key string) {
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Has 判断请求头是否存在
func (h *Headers) Has(key string) bool {
	_, ok := h.values[key]
	return ok
}

// Get 获取请求头值
func (h *Headers) Get(key string) string {
	return h.values[key]
}

// Keys 按插入顺序返回所有键
func (h *Headers) Keys() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// All 导出请求头快照
func (h *Headers) All() map[string]string {
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}
