/*
Package builder turns a validated configuration model into a lazy sequence
of task graphs.

Every builder follows the same lifecycle:

 1. Construction: the builder is created from a *config.Model and the run's
    shared random source. Graph feasibility is checked right away and an
    infeasible configuration fails with *InfeasibleConfigError before any
    graph exists.

 2. Generation: Build returns an iterator. Each step of the range loop
    generates exactly one graph from scratch (fresh graph, fresh id counter)
    and hands it to the consumer, which owns it from then on. Stopping the
    loop early leaves nothing behind.

 3. Failure: a generation-time invariant violation aborts the current graph
    with *BuildFailedError. Nothing partial is yielded and nothing is retried.

The ForkJoin builder is the only topology today. New returns the builder
named by the model's generation method.
*/
package builder
