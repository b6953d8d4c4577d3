package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrMalformedDateSet 存储层日期集合非法：为空或包含无法解析的日期
// 预约日期集在进入业务规则之前即在存储边界被拒绝
var ErrMalformedDateSet = errors.New("日期集合非法：为空或格式错误")
