// Copyright (c) TaskFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 TaskFlow 引擎的全局共享类型定义。

# 概述

types 是引擎最底层的公共包，不依赖任何内部包，为 workflow、tools、
memory、agent 等上层模块提供统一的类型契约。跨包共享的任务模型、
执行结果与错误码均定义于此，以避免循环依赖。

# 核心类型

  - Task             — 工作单元：能力名称、参数、依赖集合
  - TaskResult       — 单次任务执行结果（每次运行每个任务恰好产生一次）
  - ExecutionMode    — 流程执行模式（Sequential | DAG）
  - Error / ErrorCode — 结构化错误体系，按错误种类分派处理策略
*/
package types
