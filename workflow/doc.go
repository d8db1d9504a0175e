// Copyright (c) TaskFlow Authors.
// Licensed under the MIT License.

/*
Package workflow 提供任务流编排与执行策略。

# 概述

workflow 包实现了 TaskFlow 的流程模型与两种执行策略。Flow 将任务与
共享上下文组合为一次可重复执行的流程；Sequential 策略按声明顺序执行，
DAG 策略按依赖图解析就绪集并拓扑调度。两种策略共享同一个任务状态机
（PENDING → READY → RUNNING → SUCCEEDED | FAILED）。

# 核心接口与类型

  - Flow             — 命名任务序列 + 共享上下文 + 执行模式（append-only 构建）
  - Executor         — 能力调用函数，由上层 Controller 注入
  - Strategy         — 执行策略接口 Run(ctx, tasks, exec, context)
  - SequentialStrategy — 顺序执行，首次失败即短路
  - DAGStrategy      — 就绪集轮次调度，环/缺失依赖检测，fail-fast 停机
  - FlowDefinition   — YAML / JSON 流程定义与校验

# 主要能力

  - 上下文快照：执行使用 Flow 上下文的副本，存储的上下文永不被修改
  - 依赖输出注入：DAG 任务通过保留键 dependency_outputs 仅见其声明依赖的输出
  - 确定性调度：就绪集内按声明顺序决胜，结果序列对测试稳定
*/
package workflow
