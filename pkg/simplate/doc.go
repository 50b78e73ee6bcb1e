// Package simplate 提供基于 {{...}} 占位符的文本替换引擎。
//
// 模板中的占位符按名称在有序的值源列表中查找，先命中的值源生效。
// 占位符可以携带 body，body 会先经过完整的展开流程，再作为参数传给值的计算函数。
// 替换后的文本会从替换起点重新扫描，因此值本身也可以包含占位符（间接展开）。
//
// # 语法
//
//	{{name}}        - 以空 body 计算 name
//	{{name:body}}   - 先展开 body，再以结果计算 name
//	{{f:{{a}} {{b}}}} - body 中允许嵌套完整的占位符，按花括号配对定界
//
// # 语义说明
//
//  1. 仅做字符串层面的替换，不提供条件、循环等控制结构
//  2. 任一占位符无法解析或未闭合，整个调用失败，不返回部分结果
//  3. 默认不限制展开深度；自引用的值会无限展开，可通过 [WithMaxDepth] 与 [WithMaxExpansions] 设置上限
//
// # 快速开始
//
//	tokens := simplate.NewSource().
//	    MustAdd("x1", "Hello").
//	    MustAdd("x2", "world")
//	funcs := simplate.NewSource().
//	    MustAdd("upper", strings.ToUpper)
//
//	out, err := simplate.Process("{{upper:{{x1}} {{x2}}}}", tokens, funcs)
//	// out == "HELLO WORLD"
//
// 详见 [Process] 文档。
package simplate
