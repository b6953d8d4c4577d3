package service

import "sync"

// keyedMutex 按键串行化点
// 预约以教室为键、考勤以 (场次, 日期) 为键，使“冲突检查 + 写入”对同键请求互斥，
// 避免两个并发请求同时观察到空闲后重复落库
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Get 返回指定键的互斥锁，首次访问时创建
func (k *keyedMutex) Get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}
