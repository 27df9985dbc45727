// Package content 从文章的块结构富文本中提取纯文本与 wiki 链接
//
// 文档采用 Editor.js 格式：有序的块列表，每个块带类型与任意数据。
// 提取是纯函数且不会失败，无法解析的片段直接跳过，不报错。
package content
